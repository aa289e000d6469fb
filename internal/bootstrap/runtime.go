// Package bootstrap wires the process-wide runtime: database, Redis and built-in data.
package bootstrap

import (
	"context"
	"fmt"

	"brewhub/internal/cache"
	"brewhub/internal/config"
	"brewhub/internal/database"
	"brewhub/internal/repository"
	"brewhub/internal/seed"
	"brewhub/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally upserts the built-in recipes.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(ctx, cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedBuiltIns {
		if err := SeedBuiltIns(ctx, db); err != nil {
			return nil, nil, err
		}
	}

	return db, r, nil
}

// SeedBuiltIns upserts the system-default recipes.
func SeedBuiltIns(ctx context.Context, db *gorm.DB) error {
	store := service.NewRecipeService(repository.NewRecipeRepository(db))
	if err := seed.SystemRecipes(ctx, store); err != nil {
		return fmt.Errorf("failed to seed built-in recipes: %w", err)
	}
	return nil
}
