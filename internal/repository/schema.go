package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates every table the insights store needs. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	industry_code TEXT NOT NULL DEFAULT '',
	industry_name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_customers_industry ON customers (industry_code);

CREATE TABLE IF NOT EXISTS score_records (
	id                   TEXT PRIMARY KEY,
	worker_id            TEXT NOT NULL,
	customer_id          TEXT NOT NULL,
	agency_id            TEXT NOT NULL DEFAULT '',
	department           TEXT NOT NULL DEFAULT '',
	location             TEXT NOT NULL DEFAULT '',
	supervisor           TEXT NOT NULL DEFAULT '',
	team                 TEXT NOT NULL DEFAULT '',
	work_engagement      REAL NOT NULL,
	career_alignment     REAL NOT NULL,
	manager_relationship REAL NOT NULL,
	personal_wellbeing   REAL NOT NULL,
	job_mobility         REAL NOT NULL,
	overall_score        INTEGER NOT NULL,
	trend                TEXT NOT NULL,
	risk_level           TEXT NOT NULL,
	flags                TEXT NOT NULL DEFAULT '[]',
	recorded_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_score_records_worker ON score_records (customer_id, worker_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_score_records_time ON score_records (recorded_at);

CREATE TABLE IF NOT EXISTS baselines (
	id            TEXT PRIMARY KEY,
	customer_id   TEXT NOT NULL,
	payload       TEXT NOT NULL,
	calculated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS benchmarks (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	payload       TEXT NOT NULL,
	calculated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scoring_configs (
	customer_id TEXT NOT NULL,
	agency_id   TEXT NOT NULL DEFAULT '',
	payload     TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (customer_id, agency_id)
);

CREATE TABLE IF NOT EXISTS messaging_configs (
	customer_id TEXT NOT NULL,
	agency_id   TEXT NOT NULL DEFAULT '',
	payload     TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (customer_id, agency_id)
);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
