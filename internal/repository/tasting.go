package repository

import (
	"context"

	"brewhub/internal/models"

	"gorm.io/gorm"
)

// TastingRepository persists tasting-history records.
type TastingRepository interface {
	Create(ctx context.Context, record *models.TastingRecord) error
	GetByID(ctx context.Context, id uint) (*models.TastingRecord, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.TastingRecord, error)
	Delete(ctx context.Context, id uint) error
}

type tastingRepository struct {
	db *gorm.DB
}

// NewTastingRepository creates a new tasting history repository
func NewTastingRepository(db *gorm.DB) TastingRepository {
	return &tastingRepository{db: db}
}

func (r *tastingRepository) Create(ctx context.Context, record *models.TastingRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tastingRepository) GetByID(ctx context.Context, id uint) (*models.TastingRecord, error) {
	var record models.TastingRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, lookupError(err, "TastingRecord", id)
	}
	return &record, nil
}

func (r *tastingRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.TastingRecord, error) {
	var records []models.TastingRecord
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("tasted_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Offset(max(offset, 0)).
		Find(&records).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return records, nil
}

func (r *tastingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.TastingRecord{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("TastingRecord", id)
	}
	return nil
}
