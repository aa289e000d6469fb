package service

import (
	"context"
	"errors"
	"testing"

	"brewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("caller becomes owner", func(t *testing.T) {
		t.Parallel()
		var saved *models.Recipe
		repo := noopRecipeRepo()
		repo.createFn = func(_ context.Context, r *models.Recipe) error {
			saved = r
			return nil
		}
		cfg := models.RecipeConfiguration{Grind: "medium", Base: models.RecipeBase{CoffeeGrams: 15, WaterTotalMl: 250}}
		r, err := NewRecipeService(repo).Create(ctx, 7, RecipeInput{
			Name: ptr("Mi V60"), Method: ptr("v60"), Ratio: ptr("1:16"), Configuration: &cfg,
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.True(t, r.OwnedBy(7))
		assert.False(t, r.IsSystem())
		assert.True(t, r.IsPublic, "recipes are public unless stated otherwise")
		assert.Equal(t, "medium", r.Configuration.Data().Grind)
	})

	tests := []struct {
		name string
		in   RecipeInput
	}{
		{"missing name", RecipeInput{Method: ptr("v60"), Ratio: ptr("1:16")}},
		{"missing ratio", RecipeInput{Name: ptr("x"), Method: ptr("v60")}},
		{"blank method", RecipeInput{Name: ptr("x"), Method: ptr(" "), Ratio: ptr("1:16")}},
		{"rating too high", RecipeInput{Name: ptr("x"), Method: ptr("v60"), Ratio: ptr("1:16"), Rating: ptr(6)}},
		{"rating zero", RecipeInput{Name: ptr("x"), Method: ptr("v60"), Ratio: ptr("1:16"), Rating: ptr(0)}},
		{"malformed ratio", RecipeInput{Name: ptr("x"), Method: ptr("v60"), Ratio: ptr("16 to 1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRecipeService(noopRecipeRepo()).Create(ctx, 7, tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestRecipeService_UpdateDelete_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := noopRecipeRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Recipe, error) {
		switch id {
		case 1:
			return &models.Recipe{ID: 1, Owner: models.UserOwner(7)}, nil
		case 2:
			return &models.Recipe{ID: 2, Owner: models.SystemOwner(), IsSystemDefault: true}, nil
		}
		return nil, models.NewNotFoundError("Recipe", id)
	}
	svc := NewRecipeService(repo)

	_, err := svc.Update(ctx, 1, 8, RecipeInput{Notes: ptr("mine now")})
	assertCode(t, err, models.CodeForbidden)
	_, err = svc.Update(ctx, 2, 7, RecipeInput{Notes: ptr("edited")})
	assertCode(t, err, models.CodeForbidden)
	_, err = svc.Update(ctx, 3, 7, RecipeInput{Notes: ptr("edited")})
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.Update(ctx, 1, 7, RecipeInput{})
	assertValidationError(t, err)
	_, err = svc.Update(ctx, 1, 7, RecipeInput{Name: ptr("  ")})
	assertValidationError(t, err)
	_, err = svc.Update(ctx, 1, 7, RecipeInput{Notes: ptr("edited"), IsPublic: ptr(false)})
	require.NoError(t, err)

	assertCode(t, svc.Delete(ctx, 2, 7), models.CodeForbidden)
	require.NoError(t, svc.Delete(ctx, 1, 7))
}

func TestRecipeService_ApplyCompletion_IgnoresOwner(t *testing.T) {
	t.Parallel()
	repo := noopRecipeRepo()
	var got map[string]interface{}
	repo.updateFn = func(_ context.Context, id uint, fields map[string]interface{}) (*models.Recipe, error) {
		got = fields
		return &models.Recipe{ID: id}, nil
	}
	_, err := NewRecipeService(repo).ApplyCompletion(context.Background(), 2, "notas", ptr(4))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"notes": "notas", "rating": 4}, got)
}

func TestRecipeService_SeedSystemDefaults(t *testing.T) {
	t.Parallel()
	repo := noopRecipeRepo()
	var names []string
	repo.upsertFn = func(_ context.Context, r *models.Recipe) error {
		if r.Name == "broken" {
			return errors.New("db down")
		}
		names = append(names, r.Name)
		return nil
	}
	svc := NewRecipeService(repo)

	n, err := svc.SeedSystemDefaults(context.Background(), []models.Recipe{{Name: "V60"}, {Name: "Chemex"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"V60", "Chemex"}, names)

	n, err = svc.SeedSystemDefaults(context.Background(), []models.Recipe{{Name: "Moka"}, {Name: "broken"}})
	assertCode(t, err, models.CodeInternal)
	assert.Equal(t, 1, n)
}
