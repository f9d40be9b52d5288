package store

import (
	_ "embed"

	"github.com/goran-ethernal/swapwatch/internal/db"
	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/pkg/config"
)

//go:embed migrations/001_swap_store.sql
var mig001 string

// RunMigrations prepares the swap store schema.
func RunMigrations(log *logger.Logger, cfg config.DatabaseConfig) error {
	database, err := db.NewSQLiteDBFromConfig(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	migrations := []db.Migration{
		{
			ID:  "001_swap_store.sql",
			SQL: mig001,
		},
	}

	return db.RunMigrations(log, database, migrations)
}
