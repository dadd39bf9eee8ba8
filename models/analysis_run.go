package models

import (
	"time"

	"enrolldash/domain/core"
	"enrolldash/internal/errors"
)

// RunKind names the dashboard view that produced a run
type RunKind string

const (
	RunKindEnrollment RunKind = "enrollment"
	RunKindProducts   RunKind = "products"
)

// RunStatus is the outcome of an analysis run
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun records one upload and its outcome
type AnalysisRun struct {
	ID          core.ID   `json:"id" db:"id"`
	Kind        RunKind   `json:"kind" db:"kind"`
	Filename    string    `json:"filename" db:"filename"`
	ArchivePath string    `json:"archive_path,omitempty" db:"archive_path"`
	RowCount    int       `json:"row_count" db:"row_count"`
	ResultCount int       `json:"result_count" db:"result_count"`
	Status      RunStatus `json:"status" db:"status"`
	ErrorCode   string    `json:"error_code,omitempty" db:"error_code"`
	Error       string    `json:"error,omitempty" db:"error_message"`
	DurationMS  int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewAnalysisRun starts a run record for an uploaded file
func NewAnalysisRun(kind RunKind, filename string) *AnalysisRun {
	return &AnalysisRun{
		ID:        core.NewID(),
		Kind:      kind,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}
}

// Succeed marks the run successful. results is the number of years or products reported.
func (r *AnalysisRun) Succeed(rows, results int) {
	r.Status = RunStatusSucceeded
	r.RowCount = rows
	r.ResultCount = results
	r.finish()
}

// Fail marks the run failed with err's message and code
func (r *AnalysisRun) Fail(err error) {
	r.Status = RunStatusFailed
	if err != nil {
		r.Error = err.Error()
		r.ErrorCode = errors.GetCode(err)
	}
	r.finish()
}

func (r *AnalysisRun) finish() {
	r.DurationMS = time.Since(r.CreatedAt).Milliseconds()
}

// Failed reports whether the run ended in an error
func (r *AnalysisRun) Failed() bool {
	return r.Status == RunStatusFailed
}
