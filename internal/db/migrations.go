package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goran-ethernal/swapwatch/internal/logger"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	upDownSeparator = "-- +migrate Up"
	downMarker      = "-- +migrate Down"
)

// Migration is a single embedded SQL migration. The SQL contains a Down
// section followed by the "-- +migrate Up" separator and the Up section.
type Migration struct {
	ID  string
	SQL string
}

// RunMigrations applies all pending migrations to the database, up direction.
func RunMigrations(log *logger.Logger, db *sql.DB, migrations []Migration) error {
	source := &migrate.MemoryMigrationSource{Migrations: make([]*migrate.Migration, 0, len(migrations))}

	for _, m := range migrations {
		down, up, found := strings.Cut(m.SQL, upDownSeparator)
		if !found {
			return fmt.Errorf("migration %s missing %q separator", m.ID, upDownSeparator)
		}

		if idx := strings.Index(down, downMarker); idx != -1 {
			down = down[idx+len(downMarker):]
		}

		source.Migrations = append(source.Migrations, &migrate.Migration{
			Id:   m.ID,
			Up:   []string{strings.TrimSpace(up)},
			Down: []string{strings.TrimSpace(down)},
		})
	}

	applied, err := migrate.Exec(db, "sqlite3", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("error executing %d migrations: %w", len(source.Migrations), err)
	}

	log.Debugf("applied %d of %d migrations", applied, len(source.Migrations))
	return nil
}
