package ports

import (
	"context"

	"enrolldash/models"
)

// RunRepository stores the history of analysis runs
type RunRepository interface {
	// Record saves a finished run
	Record(ctx context.Context, run *models.AnalysisRun) error

	// ListRecent returns the newest runs first, at most limit (all when limit <= 0)
	ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRun, error)
}
