package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brewhub/internal/config"
	"brewhub/internal/observability"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do against db.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

// schemaPlan is the resolved schema policy for one config.
type schemaPlan struct {
	mode     string
	env      string
	sql      bool
	auto     bool
	unsafeOK bool
}

func planSchema(cfg *config.Config) (schemaPlan, error) {
	plan := schemaPlan{
		mode:     strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		env:      cfg.Env,
		unsafeOK: cfg.DBAutoMigrateAllowDestructive,
	}
	if plan.mode == "" {
		plan.mode = SchemaModeHybrid
	}

	switch env := strings.ToLower(strings.TrimSpace(cfg.Env)); plan.mode {
	case SchemaModeSQL:
		plan.sql = true
	case SchemaModeHybrid:
		// AutoMigrate only fills gaps locally; deployed databases follow the SQL scripts.
		plan.sql = true
		plan.auto = !deployedEnv(env)
	case SchemaModeAuto:
		if deployedEnv(env) && !plan.unsafeOK {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.auto = true
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.mode)
	}
	return plan, nil
}

func deployedEnv(env string) bool {
	switch env {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

func schemaPolicy(cfg *config.Config) (runSQL bool, runAuto bool, err error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return false, false, err
	}
	return plan.sql, plan.auto, nil
}

// ApplySchema brings db up to date according to cfg.DBSchemaMode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.sql {
		if err := NewMigrator(db).Up(ctx); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if !plan.auto {
		return nil
	}

	log := observability.Log.With(slog.String("mode", plan.mode), slog.String("env", plan.env))
	if plan.mode == SchemaModeAuto && plan.unsafeOK {
		log.Warn("auto schema mode may alter columns destructively")
	}
	log.Info("auto-migrating models")
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.mode,
		Environment:        plan.env,
		WillRunSQL:         plan.sql,
		WillRunAutoMigrate: plan.auto,
	}
	if !plan.sql {
		return status, nil
	}

	m := NewMigrator(db)
	if status.AppliedVersions, err = m.Applied(ctx); err != nil {
		return nil, err
	}
	if status.PendingMigrations, err = m.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
