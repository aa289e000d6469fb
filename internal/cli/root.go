// Package cli implements the brewctl maintenance commands.
package cli

import (
	"fmt"

	"brewhub/internal/config"
	"brewhub/internal/database"
	"brewhub/internal/observability"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// connectFunc opens the database without applying the schema. Tests replace it.
var connectFunc = func(cfg *config.Config) (*gorm.DB, error) {
	return database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
}

// loadConfigFunc loads the process configuration. Tests replace it.
var loadConfigFunc = config.LoadConfig

// NewRootCommand creates the root command for brewctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "brewctl",
		Short:         "Brewhub maintenance tool",
		Long:          "Schema migrations and data seeding for the Brewhub backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewAPICompatCommand(opts))

	return cmd
}

// connect loads configuration and opens the database.
func connect() (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfigFunc()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	observability.Configure(cfg.Env, cfg.LogLevel)
	db, err := connectFunc(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}
