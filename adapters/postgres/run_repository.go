package postgres

import (
	"context"

	"enrolldash/internal/errors"
	"enrolldash/models"
	"enrolldash/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// Record inserts a finished run
func (r *RunRepositoryImpl) Record(ctx context.Context, run *models.AnalysisRun) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO analysis_runs (id, kind, filename, archive_path, row_count, result_count, status, error_code, error_message, duration_ms, created_at)
		VALUES (:id, :kind, :filename, :archive_path, :row_count, :result_count, :status, :error_code, :error_message, :duration_ms, :created_at)
	`, run)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to record analysis run"))
	}
	return nil
}

// ListRecent returns runs newest first, optionally limited
func (r *RunRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	query := `
		SELECT id, kind, filename, archive_path, row_count, result_count, status, error_code, error_message, duration_ms, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var runs []*models.AnalysisRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to list analysis runs"))
	}
	return runs, nil
}
