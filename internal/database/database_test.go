package database

import (
	"testing"
	"time"

	"brewhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "brewhub",
		DBReadHost: "replica", DBReadPort: "5433", DBReadUser: "ru", DBReadPassword: "rp",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=brewhub sslmode=disable", primaryDSN(cfg))

	cfg.DBSSLMode = "require"
	assert.Equal(t, "host=replica port=5433 user=ru password=rp dbname=brewhub sslmode=require", replicaDSN(cfg))
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(nil)
	assert.Equal(t, 200*time.Millisecond, l.Config.SlowThreshold)

	silent := l.LogMode(1).(*CustomGormLogger)
	assert.EqualValues(t, 1, silent.Config.LogLevel)
	assert.NotEqual(t, l.Config.LogLevel, silent.Config.LogLevel, "LogMode returns a copy")
}
