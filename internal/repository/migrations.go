package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded wizard schema to databaseURL.
// A dirty version left by a crashed run is forced back one step and retried once.
func RunMigrations(databaseURL string, logger *zap.Logger) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = up(m)
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		forceVersion := max(dirty.Version-1, 0)
		logger.Warn("schema is dirty, forcing previous version",
			zap.Int("dirty_version", dirty.Version),
			zap.Int("force_version", forceVersion))

		if ferr := m.Force(forceVersion); ferr != nil {
			return fmt.Errorf("force clean migration version %d: %w", forceVersion, ferr)
		}
		err = up(m)
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if version, _, verr := m.Version(); verr == nil {
		logger.Info("schema is up to date", zap.Uint("version", version))
	}
	return nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
