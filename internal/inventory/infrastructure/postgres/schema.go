package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT    NOT NULL,
	quantity    INTEGER NOT NULL,
	condition   TEXT    NOT NULL DEFAULT 'NEW',
	stock_level TEXT    NOT NULL DEFAULT 'IN_STOCK'
)`

// RetryConfig bounds the schema-init retry loop. The database may still be
// coming up when the service starts, so the first attempts are allowed to
// fail.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
	Backoff  int
}

func DefaultRetry() RetryConfig {
	return RetryConfig{Attempts: 5, Delay: time.Second, Backoff: 2}
}

// EnsureSchema creates the inventory table, retrying with exponential
// backoff per rc.
func EnsureSchema(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, rc RetryConfig) error {
	delay := rc.Delay
	var err error
	for attempt := 1; attempt <= rc.Attempts; attempt++ {
		if _, err = pool.Exec(ctx, schema); err == nil {
			return nil
		}
		log.Warn("schema init failed", "attempt", attempt, "err", err)
		if attempt == rc.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= time.Duration(rc.Backoff)
	}
	return fmt.Errorf("schema init after %d attempts: %w", rc.Attempts, err)
}
