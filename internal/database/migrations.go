package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"brewhub/internal/observability"

	"gorm.io/gorm"
)

// Migration is one versioned SQL script pair embedded from migrations/.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// MigrationLog records an applied migration.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var (
	migrationFile = regexp.MustCompile(`^(\d{6})_([a-z0-9_]+)\.up\.sql$`)
	migrations    = mustLoadMigrations(migrationFS, "migrations")
)

// migrationLockKey is the pg advisory lock held while migrating, so replicas
// starting together do not apply the same script twice.
const migrationLockKey = 0x62726577 // "brew"

const ensureMigrationLogSQL = `CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func mustLoadMigrations(fsys fs.FS, dir string) []Migration {
	all, err := loadMigrations(fsys, dir)
	if err != nil {
		panic(err)
	}
	return all
}

// loadMigrations reads every NNNNNN_name.up.sql with its matching .down.sql.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var out []Migration
	seen := map[int]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".down.sql") {
			continue
		}
		m := migrationFile.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("migration %q does not match NNNNNN_name.up.sql", name)
		}
		version, _ := strconv.Atoi(m[1])
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %06d used by %s and %s", version, prev, name)
		}
		seen[version] = name

		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		downName := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		down, err := fs.ReadFile(fsys, path.Join(dir, downName))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no %s: %w", name, downName, err)
		}
		out = append(out, Migration{Version: version, Name: m[2], UpScript: string(up), DownScript: string(down)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// GetMigrations returns the embedded migrations ordered by version.
func GetMigrations() []Migration {
	return migrations
}

func GetMigrationByVersion(version int) *Migration {
	return findMigration(migrations, version)
}

func findMigration(all []Migration, version int) *Migration {
	for i := range all {
		if all[i].Version == version {
			m := all[i]
			return &m
		}
	}
	return nil
}

// Migrator applies and reverts SQL migrations and keeps migration_logs in sync.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// Applied returns the applied versions in ascending order. A missing log table means none.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := m.db.WithContext(ctx).Model(&MigrationLog{}).Order("version").Pluck("version", &versions).Error
	if err != nil {
		if isMissingTableError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	return versions, nil
}

// Pending returns the migrations not yet applied.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var pending []Migration
	for _, mig := range m.migrations {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction.
func (m *Migrator) Up(ctx context.Context) error {
	return m.locked(ctx, func(db *gorm.DB) error {
		if err := db.Exec(ensureMigrationLogSQL).Error; err != nil {
			return fmt.Errorf("ensure migration_logs: %w", err)
		}
		applied, err := m.Applied(ctx)
		if err != nil {
			return err
		}
		if err := validateAppliedVersions(applied, m.migrations); err != nil {
			return err
		}
		pending, err := m.Pending(ctx)
		if err != nil {
			return err
		}
		for _, mig := range pending {
			observability.Log.Info("applying migration", slog.String("migration", mig.String()))
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Exec(mig.UpScript).Error; err != nil {
					return err
				}
				return tx.Create(&MigrationLog{Version: mig.Version, Name: mig.Name}).Error
			})
			if err != nil {
				return fmt.Errorf("apply migration %s: %w", mig, err)
			}
		}
		return nil
	})
}

// Down reverts one applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	mig := findMigration(m.migrations, version)
	if mig == nil {
		return fmt.Errorf("migration version %d not found", version)
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if !containsVersion(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	return m.locked(ctx, func(db *gorm.DB) error {
		observability.Log.Info("rolling back migration", slog.String("migration", mig.String()))
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.DownScript).Error; err != nil {
				return fmt.Errorf("rollback %s: %w", mig, err)
			}
			// The down script of the first migration may drop migration_logs itself.
			if err := tx.Where("version = ?", version).Delete(&MigrationLog{}).Error; err != nil && !isMissingTableError(err) {
				return err
			}
			return nil
		})
	})
}

// locked runs fn on one pinned connection, holding the advisory lock on postgres.
func (m *Migrator) locked(ctx context.Context, fn func(db *gorm.DB) error) error {
	db := m.db.WithContext(ctx)
	if db.Dialector.Name() != "postgres" {
		return fn(db)
	}
	return db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(?)", migrationLockKey).Error; err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}
		defer conn.Exec("SELECT pg_advisory_unlock(?)", migrationLockKey)
		return fn(conn)
	})
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return NewMigrator(db).Up(ctx)
}

// RollbackMigration reverts a specific migration by version number.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	return NewMigrator(db).Down(ctx, version)
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

func containsVersion(versions []int, v int) bool {
	for _, x := range versions {
		if x == v {
			return true
		}
	}
	return false
}

// validateAppliedVersions fails when the database knows versions this build does not.
func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]bool, len(registered))
	for _, m := range registered {
		known[m.Version] = true
	}
	var unknown []string
	sorted := append([]int(nil), applied...)
	sort.Ints(sorted)
	for _, v := range sorted {
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("migration_logs contains versions unknown to this build: %s (roll them back with `brewctl migrate down` or rebuild the database)",
		strings.Join(unknown, ", "))
}
