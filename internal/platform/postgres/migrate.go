package postgres

import (
	"context"
	"fmt"

	"academy-backend/internal/common/logger"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		wallet_address           TEXT PRIMARY KEY,
		display_name             TEXT NOT NULL DEFAULT '',
		squad                    TEXT,
		profile_completed        BOOLEAN NOT NULL DEFAULT FALSE,
		squad_test_completed     BOOLEAN NOT NULL DEFAULT FALSE,
		placement_test_completed BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin                 BOOLEAN NOT NULL DEFAULT FALSE,
		created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_active              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS xp_records (
		wallet_address TEXT PRIMARY KEY,
		total_xp       BIGINT NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
		bounty_xp      BIGINT NOT NULL DEFAULT 0 CHECK (bounty_xp >= 0),
		course_xp      BIGINT NOT NULL DEFAULT 0 CHECK (course_xp >= 0),
		streak_xp      BIGINT NOT NULL DEFAULT 0 CHECK (streak_xp >= 0),
		level          INTEGER NOT NULL DEFAULT 1,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS activity_events (
		id             UUID PRIMARY KEY,
		wallet_address TEXT NOT NULL,
		activity_type  TEXT NOT NULL,
		metadata       JSONB NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_events_wallet_created
		ON activity_events (wallet_address, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS connection_events (
		id                   UUID PRIMARY KEY,
		wallet_address       TEXT NOT NULL,
		connection_type      TEXT NOT NULL,
		provider             TEXT NOT NULL DEFAULT '',
		session_data         JSONB NOT NULL DEFAULT '{}',
		verification_result  JSONB,
		connection_timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_connection_events_timestamp
		ON connection_events (connection_timestamp DESC)`,
}

// Migrate applies the schema statements in order. Statements are idempotent
// (IF NOT EXISTS) so re-running on start is safe.
func (c *Client) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	logger.Info().Int("statements", len(migrations)).Msg("Schema migrations applied")
	return nil
}
