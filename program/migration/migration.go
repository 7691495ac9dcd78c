package migration

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// SchemaVersion is the version recorded by InitializeSchema
const SchemaVersion = 1

// Migrator owns the tables used for check history
type Migrator struct {
	DB *sql.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{DB: db}
}

// InitializeSchema creates the check history tables and records the schema version
func (m *Migrator) InitializeSchema() error {
	_, err := m.DB.Exec(`
	CREATE TABLE IF NOT EXISTS check_runs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		source_name TEXT NOT NULL DEFAULT '',
		source_hash TEXT NOT NULL,
		accepted BOOLEAN NOT NULL,
		phase TEXT,
		diagnostic TEXT,
		line INT,
		"column" INT,
		statements INT NOT NULL DEFAULT 0,
		duration_us BIGINT NOT NULL DEFAULT 0,
		request_id TEXT,
		client_ip TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS schema_versions (
		id SERIAL PRIMARY KEY,
		version INT NOT NULL UNIQUE,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_check_runs_source_hash ON check_runs(source_hash);
	CREATE INDEX IF NOT EXISTS idx_check_runs_created_at ON check_runs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	_, err = m.DB.Exec(`
		INSERT INTO schema_versions (version) VALUES ($1)
		ON CONFLICT (version) DO NOTHING
	`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// GetCurrentVersion gets the applied schema version, 0 when none
func (m *Migrator) GetCurrentVersion() (int, error) {
	var version int
	err := m.DB.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM schema_versions
	`).Scan(&version)
	return version, err
}
