package database

import (
	"database/sql"
	"fmt"
)

const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		number BIGSERIAL UNIQUE,
		reference VARCHAR(255) UNIQUE NOT NULL,
		amount BIGINT NOT NULL,
		currency VARCHAR(3) NOT NULL,
		status VARCHAR(50) NOT NULL,
		customer JSONB NOT NULL,
		lines JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_orders_reference ON orders(reference);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

	CREATE TABLE IF NOT EXISTS scenario_runs (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		scenario VARCHAR(255) NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		status VARCHAR(20) NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		screenshot TEXT NOT NULL DEFAULT '',
		html TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		duration_ms BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_runs_run_id ON scenario_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_scenario ON scenario_runs(scenario);
`

// RunMigrations creates the necessary tables on DB.
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return Migrate(DB)
}

// Migrate creates the orders and scenario_runs tables on db. It is safe to
// run repeatedly.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
