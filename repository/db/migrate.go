package db

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"taskmanager/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migration applies every pending up migration to the database at dbDSN.
// An empty migratePath uses the migrations embedded in the binary; otherwise
// the directory is read from disk.
func Migration(dbDSN, migratePath string) error {
	if strings.TrimSpace(dbDSN) == "" {
		return fmt.Errorf("migration: empty database DSN")
	}

	var (
		m   *migrate.Migrate
		err error
	)
	if migratePath == "" {
		src, srcErr := iofs.New(migrations.FS, "postgres")
		if srcErr != nil {
			return fmt.Errorf("migration: open embedded source: %w", srcErr)
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, dbDSN)
	} else {
		m, err = migrate.New("file://"+migratePath, dbDSN)
	}
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("failed to close migrator", slog.Any("source_error", srcErr), slog.Any("db_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %w", err)
	}
	return nil
}
