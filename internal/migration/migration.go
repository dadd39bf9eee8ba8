package migration

import (
	"context"

	"enrolldash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.steps() {
		if _, err := db.ExecContext(ctx, step.sql); err != nil {
			return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to "+step.name))
		}
	}
	return nil
}

type step struct {
	name string
	sql  string
}

func (r *MigrationRunner) steps() []step {
	return []step{
		{name: "create analysis_runs table", sql: createAnalysisRunsTable},
		{name: "add archive_path column", sql: addArchivePathColumn},
		{name: "create indexes", sql: createIndexes},
	}
}

const createAnalysisRunsTable = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id UUID PRIMARY KEY,
		kind VARCHAR(32) NOT NULL,
		filename TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		result_count INTEGER NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL,
		error_code VARCHAR(64) NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)
`

const addArchivePathColumn = `
	DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'analysis_runs' AND column_name = 'archive_path'
		) THEN
			ALTER TABLE analysis_runs ADD COLUMN archive_path TEXT NOT NULL DEFAULT '';
		END IF;
	END $$;
`

const createIndexes = `
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_kind ON analysis_runs (kind)
`
