package server

import (
	"strings"

	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"
	"brewhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
)

// RecipeRequest is the body of recipe create and update calls.
// Omitted fields are left unchanged on update.
type RecipeRequest struct {
	Name              *string                     `json:"name"`
	Method            *string                     `json:"method"`
	Label             *string                     `json:"label"`
	Description       *string                     `json:"description"`
	Ratio             *string                     `json:"ratio"`
	Notes             *string                     `json:"notes"`
	Rating            *int                        `json:"rating"`
	CoffeeGrams       *float64                    `json:"coffee_grams"`
	WaterMl           *float64                    `json:"water_ml"`
	WaterTemperature  *float64                    `json:"water_temperature"`
	ExtractionSeconds *int                        `json:"extraction_seconds"`
	IsPublic          *bool                       `json:"is_public"`
	Configuration     *models.RecipeConfiguration `json:"configuration"`
}

func (r RecipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Name:              r.Name,
		Method:            r.Method,
		Label:             r.Label,
		Description:       r.Description,
		Ratio:             r.Ratio,
		Notes:             r.Notes,
		Rating:            r.Rating,
		CoffeeGrams:       r.CoffeeGrams,
		WaterMl:           r.WaterMl,
		WaterTemperature:  r.WaterTemperature,
		ExtractionSeconds: r.ExtractionSeconds,
		IsPublic:          r.IsPublic,
		Configuration:     r.Configuration,
	}
}

// CompleteExtractionRequest is the body of POST /api/recipes/complete.
type CompleteExtractionRequest struct {
	RecipeID        uint    `json:"recipe_id"`
	TastingNotes    string  `json:"tasting_notes"`
	Sabor           *int    `json:"sabor"`
	Aroma           *int    `json:"aroma"`
	Cuerpo          *int    `json:"cuerpo"`
	Acidez          *int    `json:"acidez"`
	ImageURL        string  `json:"image_url"`
	BagID           *uint   `json:"bag_id"`
	GramsUsed       float64 `json:"grams_used"`
	PublishToSocial bool    `json:"publish_to_social"`
}

// ListRecipes handles GET /api/recipes
// @Summary List public recipes
// @Description Lists public recipes and system defaults, optionally filtered by method or owner.
// @Tags recipes
// @Produce json
// @Param method query string false "Brewing method"
// @Param owner_id query int false "Owner user ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Recipe
// @Router /recipes [get]
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	recipes, err := s.recipeService.List(c.UserContext(), repository.RecipeFilter{
		Method:  strings.TrimSpace(c.Query("method")),
		OwnerID: queryUint(c, "owner_id"),
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipes)
}

// ListDefaultRecipes handles GET /api/recipes/defaults
// @Summary List built-in recipes
// @Tags recipes
// @Produce json
// @Success 200 {array} models.Recipe
// @Router /recipes/defaults [get]
func (s *Server) ListDefaultRecipes(c *fiber.Ctx) error {
	recipes, err := s.recipeService.ListSystemDefaults(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipes)
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.recipeService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// CreateRecipe handles POST /api/recipes
// @Summary Create recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body RecipeRequest true "Recipe"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes [post]
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req RecipeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	recipe, err := s.recipeService.Create(c.UserContext(), currentUserID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe handles PUT /api/recipes/:id
// @Summary Update recipe
// @Description Only the owner may update a recipe. Built-in recipes are read-only.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body RecipeRequest true "Fields to change"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id} [put]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req RecipeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	recipe, err := s.recipeService.Update(c.UserContext(), id, currentUserID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.recipeService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteExtraction handles POST /api/recipes/complete
// @Summary Complete an extraction
// @Description Stores tasting notes on the recipe, optionally debits a bag and publishes a post.
// @Description Steps are applied in order and earlier steps stay applied when a later one fails.
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body CompleteExtractionRequest true "Completion"
// @Success 200 {object} service.CompletionResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/complete [post]
func (s *Server) CompleteExtraction(c *fiber.Ctx) error {
	var req CompleteExtractionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.RecipeID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("recipe_id is required"))
	}

	// Only the published post needs the author snapshot.
	caller := service.Caller{ID: currentUserID(c)}
	if req.PublishToSocial {
		var err error
		if caller, err = s.caller(c); err != nil {
			return respondError(c, err)
		}
	}

	ctx, span := observability.StartStep(c.UserContext(), "extraction", "request",
		attribute.Int64("recipe.id", int64(req.RecipeID)),
		attribute.Bool("extraction.publish", req.PublishToSocial),
		attribute.Bool("extraction.debit", req.BagID != nil),
	)

	result, err := s.extractionService.CompleteExtraction(ctx, caller, service.CompleteExtractionInput{
		RecipeID:     req.RecipeID,
		TastingNotes: req.TastingNotes,
		Scores: service.SensoryScores{
			Sabor:  req.Sabor,
			Aroma:  req.Aroma,
			Cuerpo: req.Cuerpo,
			Acidez: req.Acidez,
		},
		ImageURL:        req.ImageURL,
		BagID:           req.BagID,
		GramsUsed:       req.GramsUsed,
		PublishToSocial: req.PublishToSocial,
	})
	observability.EndSpan(span, err)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
