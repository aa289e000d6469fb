package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"brewhub/internal/models"
	"brewhub/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

//go:embed defaults.yml
var defaultsYAML []byte

type recipeCatalog struct {
	Recipes []recipeEntry `yaml:"recipes"`
}

type recipeEntry struct {
	Name              string                     `yaml:"name"`
	Method            string                     `yaml:"method"`
	Label             string                     `yaml:"label"`
	Description       string                     `yaml:"description"`
	Ratio             string                     `yaml:"ratio"`
	Notes             string                     `yaml:"notes"`
	Rating            int                        `yaml:"rating"`
	CoffeeGrams       float64                    `yaml:"coffee_grams"`
	WaterMl           float64                    `yaml:"water_ml"`
	WaterTemperature  float64                    `yaml:"water_temperature"`
	ExtractionSeconds int                        `yaml:"extraction_seconds"`
	Configuration     models.RecipeConfiguration `yaml:"configuration"`
}

// RecipeSeeder persists the built-in recipes.
type RecipeSeeder interface {
	SeedSystemDefaults(ctx context.Context, recipes []models.Recipe) (int, error)
}

// DefaultRecipes parses the embedded catalog of built-in recipes.
func DefaultRecipes() ([]models.Recipe, error) {
	return parseCatalog(defaultsYAML)
}

func parseCatalog(raw []byte) ([]models.Recipe, error) {
	var catalog recipeCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse recipe catalog: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Recipes))
	recipes := make([]models.Recipe, 0, len(catalog.Recipes))
	for _, e := range catalog.Recipes {
		if e.Name == "" || e.Method == "" || e.Ratio == "" {
			return nil, fmt.Errorf("recipe catalog entry %q: name, method and ratio are required", e.Name)
		}
		if err := validation.ValidateRatio(e.Ratio); err != nil {
			return nil, fmt.Errorf("recipe catalog entry %q: %w", e.Name, err)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("recipe catalog: duplicate name %q", e.Name)
		}
		seen[e.Name] = true

		rating := e.Rating
		if rating == 0 {
			rating = 3
		}
		recipes = append(recipes, models.Recipe{
			Name:              e.Name,
			Method:            e.Method,
			Label:             e.Label,
			Description:       e.Description,
			Ratio:             e.Ratio,
			Notes:             e.Notes,
			Rating:            rating,
			CoffeeGrams:       e.CoffeeGrams,
			WaterMl:           e.WaterMl,
			WaterTemperature:  e.WaterTemperature,
			ExtractionSeconds: e.ExtractionSeconds,
			IsPublic:          true,
			Configuration:     datatypes.NewJSONType(e.Configuration),
		})
	}
	return recipes, nil
}

// SystemRecipes upserts the built-in recipes through store. Safe to run on every start.
func SystemRecipes(ctx context.Context, store RecipeSeeder) error {
	recipes, err := DefaultRecipes()
	if err != nil {
		return err
	}
	n, err := store.SeedSystemDefaults(ctx, recipes)
	if err != nil {
		return fmt.Errorf("seed system recipes (%d of %d written): %w", n, len(recipes), err)
	}
	log.Printf("✓ %d built-in recipes ensured", n)
	return nil
}
