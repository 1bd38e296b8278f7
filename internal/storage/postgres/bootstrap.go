package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vyrodovalexey/itemsvc/internal/observability"
	"github.com/vyrodovalexey/itemsvc/internal/retry"
)

const createItemsTableSQL = `
CREATE TABLE IF NOT EXISTS items (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL
)`

// CreateTables creates the items table if it does not exist.
func CreateTables(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createItemsTableSQL); err != nil {
		return fmt.Errorf("postgres: create tables: %w", err)
	}
	return nil
}

// EnsureSchema runs table creation with bounded constant-backoff retry so
// the service can start while the database is still coming up. On first
// success the schema is ready; once attempts are exhausted the last error
// is returned and startup must abort.
func EnsureSchema(ctx context.Context, db DB, cfg *retry.Config, logger observability.Logger) error {
	if logger == nil {
		logger = observability.NopLogger()
	}

	err := retry.Do(ctx, cfg,
		func() error {
			return CreateTables(ctx, db)
		},
		&retry.Options{
			OnRetry: func(attempt int, err error, delay time.Duration) {
				logger.Warn("database not ready, retrying",
					observability.Int("attempt", attempt),
					observability.Duration("delay", delay),
					observability.Error(err),
				)
			},
		},
	)
	if err != nil {
		logger.Error("could not initialize database schema", observability.Error(err))
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}

	logger.Info("database schema ready")
	return nil
}
