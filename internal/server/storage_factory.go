package server

import (
	"fmt"
	"path/filepath"

	"github.com/preston-bernstein/nba-roster-service/internal/config"
	"github.com/preston-bernstein/nba-roster-service/internal/persistence"
	"github.com/preston-bernstein/nba-roster-service/internal/persistence/sqlite"
)

const sqliteFile = "roster.db"

var openSQLite = sqlite.Open

// buildStorage opens the configured key-value provider. The returned close
// func is never nil.
func buildStorage(cfg config.StorageConfig) (persistence.Provider, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case config.StorageMemory, "":
		return persistence.NewMemoryProvider(), noop, nil
	case config.StorageFile:
		return persistence.NewFileProvider(cfg.Path), noop, nil
	case config.StorageSQLite:
		db, err := openSQLite(filepath.Join(cfg.Path, sqliteFile))
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite storage: %w", err)
		}
		return db, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
