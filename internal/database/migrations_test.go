package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqlFile(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(body)}
}

func TestLoadMigrations(t *testing.T) {
	t.Run("ordered by version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/000002_add_grinders.up.sql":   sqlFile("CREATE TABLE grinders (id INTEGER);"),
			"m/000002_add_grinders.down.sql": sqlFile("DROP TABLE grinders;"),
			"m/000001_init.up.sql":           sqlFile("CREATE TABLE kettles (id INTEGER);"),
			"m/000001_init.down.sql":         sqlFile("DROP TABLE kettles;"),
		}
		all, err := loadMigrations(fsys, "m")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "000001_init", all[0].String())
		assert.Equal(t, "add_grinders", all[1].Name)
		assert.Equal(t, "DROP TABLE grinders;", all[1].DownScript)
	})

	t.Run("missing down script", func(t *testing.T) {
		fsys := fstest.MapFS{"m/000001_init.up.sql": sqlFile("SELECT 1;")}
		_, err := loadMigrations(fsys, "m")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "000001_init.down.sql")
	})

	t.Run("bad file name", func(t *testing.T) {
		fsys := fstest.MapFS{"m/1_init.up.sql": sqlFile("SELECT 1;")}
		_, err := loadMigrations(fsys, "m")
		assert.Error(t, err)
	})

	t.Run("duplicate version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/000001_a.up.sql":   sqlFile("SELECT 1;"),
			"m/000001_a.down.sql": sqlFile("SELECT 1;"),
			"m/000001_b.up.sql":   sqlFile("SELECT 1;"),
			"m/000001_b.down.sql": sqlFile("SELECT 1;"),
		}
		_, err := loadMigrations(fsys, "m")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "000001")
	})
}

func testMigrator(t *testing.T) (*Migrator, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &Migrator{db: db, migrations: []Migration{
		{Version: 1, Name: "kettles", UpScript: "CREATE TABLE kettles (id INTEGER PRIMARY KEY);", DownScript: "DROP TABLE kettles;"},
		{Version: 2, Name: "grinders", UpScript: "CREATE TABLE grinders (id INTEGER PRIMARY KEY);", DownScript: "DROP TABLE grinders;"},
	}}, db
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	m, db := testMigrator(t)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	require.NoError(t, m.Up(ctx))
	applied, err = m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
	assert.True(t, db.Migrator().HasTable("grinders"))

	// Running again is a no-op.
	require.NoError(t, m.Up(ctx))
	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, db.Migrator().HasTable("grinders"))
	applied, err = m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)

	err = m.Down(ctx, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been applied")

	assert.Error(t, m.Down(ctx, 42))
}

func TestMigrator_FailedScriptIsNotLogged(t *testing.T) {
	ctx := context.Background()
	m, _ := testMigrator(t)
	m.migrations = append(m.migrations, Migration{Version: 3, Name: "broken", UpScript: "CREATE TABLE oops (", DownScript: "SELECT 1;"})

	err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000003_broken")

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
}

func TestMigrator_RefusesUnknownAppliedVersions(t *testing.T) {
	ctx := context.Background()
	m, db := testMigrator(t)
	require.NoError(t, m.Up(ctx))
	require.NoError(t, db.Create(&MigrationLog{Version: 9, Name: "from_the_future"}).Error)

	err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000009")
}
