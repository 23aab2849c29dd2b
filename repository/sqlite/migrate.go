package sqlite

import (
	stderrors "errors"
	"fmt"
	"strings"

	"taskmanager/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migration brings the database file at path up to the latest schema. An
// empty migratePath uses the embedded migrations.
func Migration(path, migratePath string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("migration: empty database path")
	}
	dbURL := "sqlite://" + path

	var (
		m   *migrate.Migrate
		err error
	)
	if migratePath == "" {
		src, srcErr := iofs.New(migrations.FS, "sqlite")
		if srcErr != nil {
			return fmt.Errorf("migration: open embedded source: %w", srcErr)
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, dbURL)
	} else {
		m, err = migrate.New("file://"+migratePath, dbURL)
	}
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %w", err)
	}
	return nil
}
