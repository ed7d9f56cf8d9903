package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillShiftSeq(db); err != nil {
		return fmt.Errorf("backfilling shift seq values: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS machines (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_machines_name ON machines(name)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		start_min  INTEGER NOT NULL CHECK(start_min >= 0 AND start_min < 1440),
		end_min    INTEGER NOT NULL CHECK(end_min >= 0 AND end_min <= 1440),
		pauses     TEXT NOT NULL DEFAULT '[]',
		working    INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS machine_products (
		machine_id TEXT NOT NULL REFERENCES machines(id) ON DELETE CASCADE,
		item_id    TEXT NOT NULL,
		setup_min  INTEGER NOT NULL DEFAULT 0 CHECK(setup_min >= 0),
		PRIMARY KEY (machine_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS production_requests (
		id                       TEXT PRIMARY KEY,
		machine_id               TEXT NOT NULL REFERENCES machines(id) ON DELETE CASCADE,
		item_id                  TEXT NOT NULL,
		item_name                TEXT NOT NULL DEFAULT '',
		item_type                TEXT NOT NULL DEFAULT 'product'
		                         CHECK(item_type IN ('product','semiproduct')),
		quantity                 INTEGER NOT NULL CHECK(quantity >= 0),
		production_time_per_unit TEXT NOT NULL,
		setup_min                INTEGER NOT NULL DEFAULT 0 CHECK(setup_min >= 0),
		min_batch                INTEGER NOT NULL DEFAULT 0 CHECK(min_batch >= 0),
		interval_batch           INTEGER NOT NULL DEFAULT 0 CHECK(interval_batch >= 0),
		requested_start          TEXT,
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_requests_machine ON production_requests(machine_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_start ON production_requests(requested_start)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id              TEXT PRIMARY KEY,
		fallback_policy TEXT NOT NULL DEFAULT 'first',
		gap_policy      TEXT NOT NULL DEFAULT 'absorb',
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_created ON plans(created_at)`,

	`CREATE TABLE IF NOT EXISTS plan_blocks (
		plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		seq          INTEGER NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('task','setup')),
		block_id     TEXT NOT NULL,
		request_id   TEXT NOT NULL,
		machine_id   TEXT NOT NULL,
		item_id      TEXT NOT NULL DEFAULT '',
		item_name    TEXT NOT NULL DEFAULT '',
		from_item_id TEXT NOT NULL DEFAULT '',
		to_item_id   TEXT NOT NULL DEFAULT '',
		quantity     INTEGER NOT NULL DEFAULT 0,
		start_at     TEXT NOT NULL,
		end_at       TEXT NOT NULL,
		PRIMARY KEY (plan_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS plan_skips (
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		request_id TEXT NOT NULL,
		machine_id TEXT NOT NULL,
		reason     TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (plan_id, seq)
	)`,

	// Shift display color
	`ALTER TABLE shifts ADD COLUMN color TEXT NOT NULL DEFAULT ''`,

	// Explicit list order for shifts: the calendar resolves in this order
	`ALTER TABLE shifts ADD COLUMN seq INTEGER NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_seq ON shifts(seq)`,
}

// migrateBackfillShiftSeq numbers shifts that predate the seq column in
// creation order. Idempotent: rows with seq > 0 are left alone.
func migrateBackfillShiftSeq(db *sql.DB) error {
	ctx := context.Background()

	var pending int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE seq = 0`).Scan(&pending); err != nil {
		return fmt.Errorf("checking shift seq: %w", err)
	}
	if pending == 0 {
		return nil
	}

	var maxSeq int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM shifts`).Scan(&maxSeq); err != nil {
		return fmt.Errorf("reading max shift seq: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM shifts WHERE seq = 0 ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("listing shifts for seq backfill: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning shift id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := db.ExecContext(ctx,
			`UPDATE shifts SET seq = ? WHERE id = ? AND seq = 0`, maxSeq+i+1, id); err != nil {
			return fmt.Errorf("updating shift seq: %w", err)
		}
	}
	return nil
}
