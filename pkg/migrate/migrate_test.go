package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	conn, err := db.OpenSQLite("file:migrate_" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.NewFromConn(conn, config.DBDriverSQLite)
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
}

func TestRunUpCreatesSchemaAndSeeds(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Run(ctx, sqlDB, config.DBDriverSQLite, "up"))

	for _, table := range []string{"users", "sessions", "products", "orders", "site_config"} {
		require.True(t, client.DB().Migrator().HasTable(table), "expected table %s", table)
	}

	var names []string
	require.NoError(t, client.DB().Table("products").Order("id").Pluck("name", &names).Error)
	require.Equal(t, []string{"Scooter X13 Pro", "E-Bike V10 Sport"}, names)

	version, err := Version(ctx, sqlDB, config.DBDriverSQLite)
	require.NoError(t, err)
	require.Equal(t, int64(20260301120500), version)
}

func TestMigrateToVersionRollsBackSeeds(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Run(ctx, sqlDB, config.DBDriverSQLite, "up"))
	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "20260301120000"))

	var count int64
	require.NoError(t, client.DB().Table("products").Count(&count).Error)
	require.Zero(t, count)

	require.Error(t, MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "not-a-version"))
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.Error(t, Run(context.Background(), sqlDB, "mysql", "up"))
	require.Error(t, Run(context.Background(), nil, config.DBDriverSQLite, "up"))
}

func TestCreateSQLMigrationsWritesEveryDialect(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	paths, err := CreateSQLMigrations(root, "Add Banner Alt Text!", now)
	require.NoError(t, err)
	require.Len(t, paths, len(Dialects))

	for _, dialect := range Dialects {
		path := filepath.Join(root, dialect, "20261001093000_add_banner_alt_text.sql")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.True(t, strings.Contains(string(data), "-- +goose Up"))
		require.NoError(t, ValidateDir(filepath.Join(root, dialect)))
	}

	_, err = CreateSQLMigrations(root, "Add Banner Alt Text!", now)
	require.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}
