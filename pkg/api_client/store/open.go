package store

import (
	"context"
	"fmt"

	"github.com/biotools-linter/linter-api/pkg/config"
)

// Open connects the store selected by cfg.DatabaseDriver and migrates it.
func Open(ctx context.Context, cfg *config.Config) (MessageStore, error) {
	var (
		s   MessageStore
		err error
	)
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		s, err = NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	case config.DriverSQLite:
		s, err = NewSQLiteStore(ctx, cfg.SQLitePath, cfg.DBMaxConns)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
