package repository

import (
	"context"
	"errors"

	"brewhub/internal/cache"
	"brewhub/internal/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Zero values mean "any".
type RecipeFilter struct {
	Method  string
	OwnerID uint
	Limit   int
	Offset  int
}

// RecipeRepository persists brewing recipes, including system-owned defaults.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	ListSystemDefaults(ctx context.Context) ([]models.Recipe, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Recipe, error)
	Delete(ctx context.Context, id uint) error
	UpsertSystemDefault(ctx context.Context, recipe *models.Recipe) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	_, err := cache.Aside(ctx, cache.RecipeKey(id), &recipe, cache.RecipeTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&recipe, id).Error; err != nil {
			return lookupError(err, "Recipe", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns public and system recipes, or every recipe of one owner when OwnerID is set.
func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	q := readDB(r.db).WithContext(ctx).Model(&models.Recipe{})
	if filter.OwnerID != 0 {
		q = q.Where("owner_kind = ? AND owner_id = ?", models.OwnerKindUser, filter.OwnerID)
	} else {
		q = q.Where("is_public = ? OR owner_kind = ?", true, models.OwnerKindSystem)
	}
	if filter.Method != "" {
		q = q.Where("method = ?", filter.Method)
	}

	var recipes []models.Recipe
	if err := q.Order("is_system_default DESC, created_at DESC, id DESC").
		Limit(clampLimit(filter.Limit)).
		Offset(max(filter.Offset, 0)).
		Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) ListSystemDefaults(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := readDB(r.db).WithContext(ctx).
		Where("owner_kind = ? AND is_system_default = ?", models.OwnerKindSystem, true).
		Order("name ASC").
		Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Recipe, error) {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Recipe", id)
	}
	cache.InvalidateRecipe(ctx, id)

	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, lookupError(err, "Recipe", id)
	}
	return &recipe, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", id)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}

// UpsertSystemDefault creates or refreshes a system recipe keyed by name.
func (r *recipeRepository) UpsertSystemDefault(ctx context.Context, recipe *models.Recipe) error {
	recipe.Owner = models.SystemOwner()
	recipe.IsSystemDefault = true

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Recipe
		err := tx.Where("owner_kind = ? AND name = ?", models.OwnerKindSystem, recipe.Name).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(recipe).Error
		case err != nil:
			return err
		}

		recipe.ID = existing.ID
		recipe.CreatedAt = existing.CreatedAt
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		cache.InvalidateRecipe(ctx, recipe.ID)
		return nil
	})
}
