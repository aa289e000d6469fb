package server

import (
	"brewhub/internal/models"
	"brewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TastingRequest is the body of POST /api/tastings.
type TastingRequest struct {
	MethodName    string  `json:"method_name"`
	OverallRating int     `json:"overall_rating"`
	Acidity       int     `json:"acidity"`
	Sweetness     int     `json:"sweetness"`
	Bitterness    int     `json:"bitterness"`
	Notes         string  `json:"notes"`
	BagID         *uint   `json:"bag_id"`
	GramsUsed     float64 `json:"grams_used"`
}

// RecordTasting handles POST /api/tastings
// @Summary Record a tasting
// @Description Appends to the caller's tasting history and optionally debits a bag. Never publishes.
// @Tags tastings
// @Accept json
// @Produce json
// @Param request body TastingRequest true "Tasting"
// @Success 201 {object} models.TastingRecord
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tastings [post]
func (s *Server) RecordTasting(c *fiber.Ctx) error {
	var req TastingRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	record, err := s.extractionService.RecordTastingHistory(c.UserContext(), currentUserID(c), service.RecordTastingInput{
		MethodName:    req.MethodName,
		OverallRating: req.OverallRating,
		Profile: models.SensoryProfile{
			Acidity:    req.Acidity,
			Sweetness:  req.Sweetness,
			Bitterness: req.Bitterness,
		},
		Notes:     req.Notes,
		BagID:     req.BagID,
		GramsUsed: req.GramsUsed,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetMyTastings handles GET /api/tastings/me
// @Summary List my tasting history
// @Tags tastings
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.TastingRecord
// @Security BearerAuth
// @Router /tastings/me [get]
func (s *Server) GetMyTastings(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	records, err := s.extractionService.ListTastingHistory(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

// DeleteTasting handles DELETE /api/tastings/:id
// @Summary Delete a tasting record
// @Tags tastings
// @Param id path int true "Tasting ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tastings/{id} [delete]
func (s *Server) DeleteTasting(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.extractionService.DeleteTastingHistory(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
