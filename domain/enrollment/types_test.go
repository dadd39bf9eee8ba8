package enrollment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnSets(t *testing.T) {
	assert.Equal(t, []string{
		"Term", "Year", "Enrolled",
		"Engineering Enrolled", "Business Enrolled", "Arts Enrolled", "Science Enrolled",
	}, RequiredColumns())
	assert.Equal(t, []string{"Engineering %", "Business %", "Arts %", "Science %"}, PercentageColumns())
	assert.Len(t, SummedColumns(), 5)
	assert.Equal(t, []string{"Retention Rate (%)", "Student Satisfaction (%)"}, MetricTrendColumns())
}

func TestYearSummaryPercentTotal(t *testing.T) {
	y := YearSummary{EngineeringPct: 40, BusinessPct: 30, ArtsPct: 20, SciencePct: 10}
	assert.InDelta(t, 100.0, y.PercentTotal(), 1e-9)
	assert.True(t, y.HasFinitePercentages())

	zero := YearSummary{EngineeringPct: math.NaN(), BusinessPct: math.Inf(1)}
	assert.False(t, zero.HasFinitePercentages())
	assert.True(t, math.IsNaN(zero.PercentTotal()))
}
