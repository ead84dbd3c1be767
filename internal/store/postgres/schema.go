package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Documents are stored as JSONB with typed key columns, matching the
// collection-per-user shape of the data model. The outbox tables carry
// transactional event delivery.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS equipment (
		user_id      TEXT NOT NULL,
		equipment_id TEXT NOT NULL,
		doc          JSONB NOT NULL,
		created_at   BIGINT NOT NULL,
		PRIMARY KEY (user_id, equipment_id)
	)`,
	`CREATE INDEX IF NOT EXISTS equipment_user_created_idx
		ON equipment (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS patterns (
		user_id    TEXT NOT NULL,
		pattern_id TEXT NOT NULL,
		doc        JSONB NOT NULL,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, pattern_id)
	)`,
	`CREATE INDEX IF NOT EXISTS patterns_user_created_idx
		ON patterns (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id    TEXT PRIMARY KEY,
		doc        JSONB NOT NULL,
		updated_at BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS daily_plans (
		user_id    TEXT NOT NULL,
		date_key   TEXT NOT NULL,
		doc        JSONB NOT NULL,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, date_key)
	)`,

	`CREATE TABLE IF NOT EXISTS workout_logs (
		user_id    TEXT NOT NULL,
		date_key   TEXT NOT NULL,
		doc        JSONB NOT NULL,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, date_key)
	)`,
	`CREATE INDEX IF NOT EXISTS workout_logs_user_date_idx
		ON workout_logs (user_id, date_key DESC)`,

	`CREATE TABLE IF NOT EXISTS stamps (
		user_id    TEXT NOT NULL,
		date_key   TEXT NOT NULL,
		stamp_type TEXT NOT NULL,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, date_key)
	)`,

	`CREATE TABLE IF NOT EXISTS outbox (
		event_id       BIGSERIAL PRIMARY KEY,
		user_id        TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		topic          TEXT NOT NULL,
		schema_subject TEXT NOT NULL,
		partition_key  TEXT NOT NULL,
		payload        JSONB NOT NULL,
		dedupe_key     TEXT NOT NULL,
		claimed_at     TIMESTAMPTZ,
		published_at   TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_unpublished_idx
		ON outbox (event_id) WHERE published_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS outbox_dlq (
		dlq_id         BIGSERIAL PRIMARY KEY,
		user_id        TEXT NOT NULL,
		event_id       BIGINT NOT NULL,
		event_type     TEXT NOT NULL,
		topic          TEXT NOT NULL,
		payload        JSONB NOT NULL,
		reason         TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		schema_subject TEXT NOT NULL,
		partition_key  TEXT NOT NULL,
		retry_count    INT NOT NULL DEFAULT 0,
		next_retry_at  TIMESTAMPTZ,
		quarantined_at TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema. Statements are idempotent, so it is safe to run
// on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
