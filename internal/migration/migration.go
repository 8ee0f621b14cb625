package migration

import (
	"context"

	"dealscope/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createOwnersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create owners table")
	}
	if err := r.createQuotaStatesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create quota_states table")
	}
	if err := r.createReportsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create reports table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createOwnersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS owners (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createQuotaStatesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS quota_states (
			owner_id VARCHAR(64) PRIMARY KEY,
			period_limit INTEGER NOT NULL DEFAULT 10,
			period_used INTEGER NOT NULL DEFAULT 0,
			unlimited BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createReportsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id VARCHAR(64) PRIMARY KEY,
			owner_id VARCHAR(64) NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			risk_score DOUBLE PRECISION NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			analysis_data JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_reports_owner_created ON reports (owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
