package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunner_Steps(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, "1.0.0", r.Version())

	steps := r.steps()
	assert.Len(t, steps, 3)
	assert.Contains(t, steps[0].sql, "CREATE TABLE IF NOT EXISTS analysis_runs")
	for _, s := range steps {
		assert.NotEmpty(t, s.name)
		assert.True(t, strings.Contains(s.sql, "IF NOT EXISTS"), "step %q must be idempotent", s.name)
	}
}
