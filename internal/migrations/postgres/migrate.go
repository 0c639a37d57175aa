package postgres

import (
	"context"
	"fmt"
	"roomres/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied in order. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id       INTEGER PRIMARY KEY CHECK (id > 0),
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		features TEXT[]  NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS rooms_capacity_idx ON rooms (capacity)`,
	`CREATE INDEX IF NOT EXISTS rooms_features_idx ON rooms USING GIN (features)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		room_id    INTEGER     NOT NULL REFERENCES rooms (id),
		guest_name TEXT        NOT NULL CHECK (guest_name <> ''),
		date       DATE        NOT NULL,
		start_time TIME        NOT NULL,
		end_time   TIME        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (start_time < end_time),
		UNIQUE (room_id, date, start_time)
	)`,
	`CREATE INDEX IF NOT EXISTS reservations_window_idx ON reservations (date, start_time, end_time)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	log.Info("Running Postgres migrations", "statements", len(Schema))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for i, stmt := range Schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	log.Info("All Postgres migrations applied successfully")
	return nil
}
