package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DevMode switches migration loading to the on-disk migrations
// directory so new migrations can be iterated on without rebuilding.
var DevMode = false

// devMigrationsDir is the on-disk location used when DevMode is set.
const devMigrationsDir = "internal/catalog/migrations"

// getMigrationsFS returns the migrations filesystem rooted at the
// directory holding the .sql files.
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		if _, err := os.Stat(devMigrationsDir); err != nil {
			return nil, fmt.Errorf("dev migrations directory not found: %w", err)
		}
		return os.DirFS(devMigrationsDir), nil
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return sub, nil
}
