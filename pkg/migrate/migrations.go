package migrate

import (
	"embed"
	"fmt"
	"path"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
)

// SourceDir is where the SQL files live relative to the repo root.
const SourceDir = "pkg/migrate/migrations"

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedded embed.FS

// Dialects lists every driver that ships migrations.
var Dialects = []string{config.DBDriverSQLite, config.DBDriverPostgres}

// embeddedDir returns the directory inside the embedded FS for a driver.
func embeddedDir(driver string) (string, error) {
	switch driver {
	case config.DBDriverSQLite, config.DBDriverPostgres:
		return path.Join("migrations", driver), nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// gooseDialect maps a configured driver to the goose dialect name.
func gooseDialect(driver string) (string, error) {
	switch driver {
	case config.DBDriverSQLite:
		return "sqlite3", nil
	case config.DBDriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
