package models

import (
	"testing"

	"enrolldash/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisRun_Lifecycle(t *testing.T) {
	tests := []struct {
		name     string
		finish   func(r *AnalysisRun)
		status   RunStatus
		code     string
		rows     int
		failed   bool
		hasError bool
	}{
		{
			name:   "succeeded",
			finish: func(r *AnalysisRun) { r.Succeed(120, 3) },
			status: RunStatusSucceeded,
			rows:   120,
		},
		{
			name:     "failed with app error",
			finish:   func(r *AnalysisRun) { r.Fail(errors.MissingColumn("Year")) },
			status:   RunStatusFailed,
			code:     errors.CodeMissingColumn,
			failed:   true,
			hasError: true,
		},
		{
			name:   "failed without cause",
			finish: func(r *AnalysisRun) { r.Fail(nil) },
			status: RunStatusFailed,
			failed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := NewAnalysisRun(RunKindEnrollment, "enrollment.csv")
			assert.False(t, run.ID.IsEmpty())
			assert.Equal(t, "enrollment.csv", run.Filename)

			tt.finish(run)
			assert.Equal(t, tt.status, run.Status)
			assert.Equal(t, tt.code, run.ErrorCode)
			assert.Equal(t, tt.rows, run.RowCount)
			assert.Equal(t, tt.failed, run.Failed())
			assert.Equal(t, tt.hasError, run.Error != "")
			assert.GreaterOrEqual(t, run.DurationMS, int64(0))
		})
	}
}
