package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"brewhub/internal/models"
	"brewhub/internal/repository"
	"brewhub/internal/validation"

	"gorm.io/datatypes"
)

const maxRecipeNotesLen = 1000

type RecipeService struct {
	recipeRepo repository.RecipeRepository
}

// RecipeInput is the payload of a create or update. On update, nil pointers leave fields unchanged.
type RecipeInput struct {
	Name              *string
	Method            *string
	Label             *string
	Description       *string
	Ratio             *string
	Notes             *string
	Rating            *int
	CoffeeGrams       *float64
	WaterMl           *float64
	WaterTemperature  *float64
	ExtractionSeconds *int
	IsPublic          *bool
	Configuration     *models.RecipeConfiguration
}

func NewRecipeService(recipeRepo repository.RecipeRepository) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return models.NewValidationError("rating must be between 1 and 5")
	}
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > maxRecipeNotesLen {
		return models.NewValidationError("notes too long (max 1000 characters)")
	}
	return nil
}

func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	return s.recipeRepo.List(ctx, filter)
}

func (s *RecipeService) ListSystemDefaults(ctx context.Context) ([]models.Recipe, error) {
	return s.recipeRepo.ListSystemDefaults(ctx)
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id)
}

func (s *RecipeService) Create(ctx context.Context, callerID uint, in RecipeInput) (*models.Recipe, error) {
	name := strings.TrimSpace(deref(in.Name))
	method := strings.TrimSpace(deref(in.Method))
	ratio := strings.TrimSpace(deref(in.Ratio))
	if name == "" || method == "" || ratio == "" {
		return nil, models.NewValidationError("name, method and ratio are required")
	}
	if err := validation.ValidateRatio(ratio); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := validateNotes(deref(in.Notes)); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:              name,
		Method:            method,
		Label:             deref(in.Label),
		Description:       deref(in.Description),
		Ratio:             ratio,
		Notes:             deref(in.Notes),
		Owner:             models.UserOwner(callerID),
		Rating:            deref(in.Rating),
		CoffeeGrams:       deref(in.CoffeeGrams),
		WaterMl:           deref(in.WaterMl),
		WaterTemperature:  deref(in.WaterTemperature),
		ExtractionSeconds: deref(in.ExtractionSeconds),
		IsPublic:          in.IsPublic == nil || *in.IsPublic,
		Configuration:     datatypes.NewJSONType(deref(in.Configuration)),
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) Update(ctx context.Context, id, callerID uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(KindRecipe, recipe, id, callerID); err != nil {
		return nil, err
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if in.Notes != nil {
		if err := validateNotes(*in.Notes); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	for column, v := range map[string]*string{"name": in.Name, "method": in.Method, "ratio": in.Ratio} {
		if v == nil {
			continue
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return nil, models.NewValidationError(column + " cannot be empty")
		}
		if column == "ratio" {
			if err := validation.ValidateRatio(trimmed); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
		}
		fields[column] = trimmed
	}
	setIf(fields, "label", in.Label)
	setIf(fields, "description", in.Description)
	setIf(fields, "notes", in.Notes)
	setIf(fields, "rating", in.Rating)
	setIf(fields, "coffee_grams", in.CoffeeGrams)
	setIf(fields, "water_ml", in.WaterMl)
	setIf(fields, "water_temperature", in.WaterTemperature)
	setIf(fields, "extraction_seconds", in.ExtractionSeconds)
	setIf(fields, "is_public", in.IsPublic)
	if in.Configuration != nil {
		fields["configuration"] = datatypes.NewJSONType(*in.Configuration)
	}

	if len(fields) == 0 {
		return nil, models.NewValidationError("no fields to update")
	}
	return s.recipeRepo.Update(ctx, id, fields)
}

func setIf[T any](fields map[string]interface{}, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}

func (s *RecipeService) Delete(ctx context.Context, id, callerID uint) error {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := assertOwner(KindRecipe, recipe, id, callerID); err != nil {
		return err
	}
	return s.recipeRepo.Delete(ctx, id)
}

// ApplyCompletion records tasting notes (and the flavour score as rating) on any recipe.
// Completing a recipe is not an edit of it, so no ownership check applies.
func (s *RecipeService) ApplyCompletion(ctx context.Context, id uint, notes string, rating *int) (*models.Recipe, error) {
	fields := map[string]interface{}{"notes": notes}
	if rating != nil {
		fields["rating"] = *rating
	}
	return s.recipeRepo.Update(ctx, id, fields)
}

// SeedSystemDefaults upserts the built-in recipes by name and returns how many were written.
func (s *RecipeService) SeedSystemDefaults(ctx context.Context, recipes []models.Recipe) (int, error) {
	for i := range recipes {
		if err := s.recipeRepo.UpsertSystemDefault(ctx, &recipes[i]); err != nil {
			return i, models.NewInternalError(err)
		}
	}
	return len(recipes), nil
}
