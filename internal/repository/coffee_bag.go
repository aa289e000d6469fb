package repository

import (
	"context"
	"errors"
	"time"

	"brewhub/internal/models"
	"brewhub/internal/observability"

	"gorm.io/gorm"
)

// CoffeeBagRepository persists the inventory ledger.
type CoffeeBagRepository interface {
	Create(ctx context.Context, bag *models.CoffeeBag) error
	GetByID(ctx context.Context, id uint) (*models.CoffeeBag, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.CoffeeBag, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.CoffeeBag, error)
	Delete(ctx context.Context, id uint) error
	// Debit subtracts grams in one conditional statement guarded by remaining_weight >= grams.
	Debit(ctx context.Context, id uint, grams float64) (*models.CoffeeBag, error)
}

type coffeeBagRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewCoffeeBagRepository creates a new coffee bag repository
func NewCoffeeBagRepository(db *gorm.DB) CoffeeBagRepository {
	return &coffeeBagRepository{db: db, logger: observability.NewRepoLogger("coffee_bags")}
}

func (r *coffeeBagRepository) Create(ctx context.Context, bag *models.CoffeeBag) error {
	defer observability.TrackQuery("create", "coffee_bags")()
	if err := r.db.WithContext(ctx).Create(bag).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.logger.LogCreate(ctx, observability.Fields{"bag_id": bag.ID, "user_id": bag.UserID})
	return nil
}

func (r *coffeeBagRepository) GetByID(ctx context.Context, id uint) (*models.CoffeeBag, error) {
	var bag models.CoffeeBag
	if err := r.db.WithContext(ctx).First(&bag, id).Error; err != nil {
		return nil, lookupError(err, "CoffeeBag", id)
	}
	return &bag, nil
}

func (r *coffeeBagRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.CoffeeBag, error) {
	var bags []models.CoffeeBag
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC, id DESC").
		Find(&bags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return bags, nil
}

func (r *coffeeBagRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.CoffeeBag, error) {
	defer observability.TrackQuery("update", "coffee_bags")()
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.CoffeeBag{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		r.logger.LogError(ctx, res.Error, "update")
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("CoffeeBag", id)
	}
	r.logger.LogUpdate(ctx, observability.Fields{"bag_id": id})
	return r.GetByID(ctx, id)
}

func (r *coffeeBagRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CoffeeBag{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("CoffeeBag", id)
	}
	r.logger.LogDelete(ctx, observability.Fields{"bag_id": id})
	return nil
}

func (r *coffeeBagRepository) Debit(ctx context.Context, id uint, grams float64) (*models.CoffeeBag, error) {
	ctx, span := observability.StartQuery(ctx, "coffee_bags", "debit")
	defer span.End()
	defer observability.TrackQuery("debit", "coffee_bags")()

	res := r.db.WithContext(ctx).
		Model(&models.CoffeeBag{}).
		Where("id = ? AND remaining_weight >= ?", id, grams).
		Updates(map[string]interface{}{
			"remaining_weight": gorm.Expr("ROUND(remaining_weight - ?, 2)", grams),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		span.RecordError(res.Error)
		return nil, models.NewInternalError(res.Error)
	}

	// Read back from the primary: a replica may not have the write yet.
	var bag models.CoffeeBag
	if err := r.db.WithContext(ctx).First(&bag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("CoffeeBag", id)
		}
		return nil, models.NewInternalError(err)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewInsufficientStockError(grams, bag.RemainingWeight)
	}
	return &bag, nil
}
