// Package memory holds process-local repositories used when no database is configured
package memory

import (
	"context"
	"sync"

	"enrolldash/models"
	"enrolldash/ports"
)

// DefaultRunCapacity bounds the number of runs kept in memory
const DefaultRunCapacity = 200

// RunRepository keeps the most recent runs in a bounded slice
type RunRepository struct {
	mu       sync.RWMutex
	runs     []*models.AnalysisRun
	capacity int
}

// NewRunRepository creates an in-memory run history holding at most capacity runs
func NewRunRepository(capacity int) ports.RunRepository {
	if capacity <= 0 {
		capacity = DefaultRunCapacity
	}
	return &RunRepository{capacity: capacity}
}

// Record appends a copy of run, evicting the oldest run when full
func (r *RunRepository) Record(ctx context.Context, run *models.AnalysisRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := *run

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, &stored)
	if len(r.runs) > r.capacity {
		r.runs = r.runs[len(r.runs)-r.capacity:]
	}
	return nil
}

// ListRecent returns copies of the newest runs first
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*models.AnalysisRun, 0, n)
	for i := len(r.runs) - 1; i >= 0 && len(out) < n; i-- {
		run := *r.runs[i]
		out = append(out, &run)
	}
	return out, nil
}
