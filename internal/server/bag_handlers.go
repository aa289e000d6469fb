package server

import (
	"brewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// BagRequest is the body of bag create and update calls.
type BagRequest struct {
	Name            *string  `json:"name"`
	Origin          *string  `json:"origin"`
	Roaster         *string  `json:"roaster"`
	Varietal        *string  `json:"varietal"`
	Notes           *string  `json:"notes"`
	GrindSuggestion *string  `json:"grind_suggestion"`
	InitialWeight   *float64 `json:"initial_weight"`
	RemainingWeight *float64 `json:"remaining_weight"`
}

// ConsumeRequest is the body of POST /api/bags/:id/consume.
type ConsumeRequest struct {
	Grams float64 `json:"grams"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// CreateBag handles POST /api/bags
// @Summary Register a coffee bag
// @Description Remaining weight defaults to the initial weight.
// @Tags bags
// @Accept json
// @Produce json
// @Param request body BagRequest true "Bag"
// @Success 201 {object} models.CoffeeBag
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /bags [post]
func (s *Server) CreateBag(c *fiber.Ctx) error {
	var req BagRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	in := service.CreateBagInput{
		OwnerID:         currentUserID(c),
		Name:            str(req.Name),
		Origin:          str(req.Origin),
		Roaster:         str(req.Roaster),
		Varietal:        str(req.Varietal),
		Notes:           str(req.Notes),
		GrindSuggestion: str(req.GrindSuggestion),
		RemainingWeight: req.RemainingWeight,
	}
	if req.InitialWeight != nil {
		in.InitialWeight = *req.InitialWeight
	}

	bag, err := s.inventoryService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bag)
}

// GetMyBags handles GET /api/bags/me
// @Summary List my coffee bags
// @Tags bags
// @Produce json
// @Success 200 {array} models.CoffeeBag
// @Security BearerAuth
// @Router /bags/me [get]
func (s *Server) GetMyBags(c *fiber.Ctx) error {
	bags, err := s.inventoryService.ListByOwner(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bags)
}

// GetBag handles GET /api/bags/:id
// @Summary Get coffee bag
// @Tags bags
// @Produce json
// @Param id path int true "Bag ID"
// @Success 200 {object} models.CoffeeBag
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /bags/{id} [get]
func (s *Server) GetBag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	bag, err := s.inventoryService.Get(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bag)
}

// UpdateBag handles PUT /api/bags/:id
// @Summary Update coffee bag
// @Description initial_weight is immutable; remaining_weight must stay within [0, initial_weight].
// @Tags bags
// @Accept json
// @Produce json
// @Param id path int true "Bag ID"
// @Param request body BagRequest true "Fields to change"
// @Success 200 {object} models.CoffeeBag
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /bags/{id} [put]
func (s *Server) UpdateBag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req BagRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	bag, err := s.inventoryService.Update(c.UserContext(), service.UpdateBagInput{
		BagID:           id,
		CallerID:        currentUserID(c),
		Name:            req.Name,
		Origin:          req.Origin,
		Roaster:         req.Roaster,
		Varietal:        req.Varietal,
		Notes:           req.Notes,
		GrindSuggestion: req.GrindSuggestion,
		InitialWeight:   req.InitialWeight,
		RemainingWeight: req.RemainingWeight,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bag)
}

// DeleteBag handles DELETE /api/bags/:id
// @Summary Delete coffee bag
// @Tags bags
// @Param id path int true "Bag ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /bags/{id} [delete]
func (s *Server) DeleteBag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.inventoryService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConsumeBag handles POST /api/bags/:id/consume
// @Summary Debit grams from a bag
// @Tags bags
// @Accept json
// @Produce json
// @Param id path int true "Bag ID"
// @Param request body ConsumeRequest true "Grams to debit"
// @Success 200 {object} models.CoffeeBag
// @Failure 400 {object} models.ErrorResponse "Invalid amount or insufficient stock"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /bags/{id}/consume [post]
func (s *Server) ConsumeBag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ConsumeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	bag, err := s.inventoryService.Consume(c.UserContext(), id, req.Grams, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bag)
}
