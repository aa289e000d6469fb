package bootstrap

import (
	"context"
	"testing"

	"brewhub/internal/database"
	"brewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedBuiltIns(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	require.NoError(t, SeedBuiltIns(context.Background(), db))

	var defaults []models.Recipe
	require.NoError(t, db.Where("is_system_default = ?", true).Find(&defaults).Error)
	assert.Len(t, defaults, 5)
	for _, r := range defaults {
		assert.Equal(t, models.OwnerKindSystem, r.OwnerKind)
	}
}
