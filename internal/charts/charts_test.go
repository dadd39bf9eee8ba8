package charts

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"strings"
	"testing"

	"enrolldash/domain/enrollment"
	"enrolldash/internal/analysis"
	"enrolldash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func years() []enrollment.YearSummary {
	return []enrollment.YearSummary{
		{Year: 2020, Enrolled: 800, EngineeringPct: 25, BusinessPct: 25, ArtsPct: 25, SciencePct: 25},
		{Year: 2021, Enrolled: 1000, EngineeringPct: 30, BusinessPct: 20, ArtsPct: 20, SciencePct: 30},
	}
}

func trends() []enrollment.Series {
	return []enrollment.Series{
		{Name: enrollment.ColumnRetention, Years: []float64{2021, 2020, 2022}, Values: []float64{84, 82, 85.5}},
		{Name: enrollment.ColumnSatisfaction, Years: []float64{2021, 2020, 2022}, Values: []float64{77, 75, 78}},
	}
}

func assertPNG(t *testing.T, img *Image, width, height int) {
	t.Helper()
	require.NotNil(t, img)
	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, width, decoded.Bounds().Dx())
	assert.Equal(t, height, decoded.Bounds().Dy())
}

func TestPercentageByMajor(t *testing.T) {
	r := NewRenderer(640, 360)

	img, err := r.PercentageByMajor(years())
	require.NoError(t, err)
	assertPNG(t, img, 640, 360)
	assert.Equal(t, TitlePercentageByMajor, img.Title)
	require.Len(t, img.Legend, 4)
	assert.Equal(t, "#8dd3c7", img.Legend[0].Color)
	assert.Equal(t, enrollment.ColumnSciencePct, img.Legend[3].Label)
}

func TestPercentageByMajor_NonFiniteYear(t *testing.T) {
	ys := append(years(), enrollment.YearSummary{
		Year: 2022, EngineeringPct: math.NaN(), BusinessPct: math.NaN(), ArtsPct: math.NaN(), SciencePct: math.NaN(),
	})

	img, err := NewRenderer(640, 360).PercentageByMajor(ys)
	require.NoError(t, err)
	assertPNG(t, img, 640, 360)
}

func TestRetentionSatisfaction(t *testing.T) {
	img, err := NewRenderer(700, 400).RetentionSatisfaction(trends())
	require.NoError(t, err)
	assertPNG(t, img, 700, 400)

	assert.Equal(t, LegendTitleMetrics, img.LegendTitle)
	require.Len(t, img.Legend, 2)
	assert.Equal(t, "#1f77b4", img.Legend[0].Color)
	assert.Equal(t, "#ff7f0e", img.Legend[1].Color)
}

func TestDepartmentTrends_SingleYear(t *testing.T) {
	series := []enrollment.Series{
		{Name: enrollment.ColumnEngineering, Years: []float64{2020}, Values: []float64{200}},
		{Name: enrollment.ColumnBusiness, Years: []float64{2020}, Values: []float64{200}},
	}

	img, err := NewRenderer(0, 0).DepartmentTrends(series)
	require.NoError(t, err)
	assertPNG(t, img, 900, 480)
}

func TestTopProducts(t *testing.T) {
	totals := []enrollment.ProductTotal{{Code: "P001", Sales: 55}, {Code: "P002", Sales: 40}, {Code: "P003", Sales: math.NaN()}}

	img, err := NewRenderer(640, 360).TopProducts(totals)
	require.NoError(t, err)
	assertPNG(t, img, 640, 360)
	assert.True(t, strings.HasPrefix(img.DataURI(), "data:image/png;base64,"))
}

func TestEmptyInputs(t *testing.T) {
	r := NewRenderer(640, 360)
	tests := []struct {
		name   string
		render func() (*Image, error)
	}{
		{"no years", func() (*Image, error) { return r.PercentageByMajor(nil) }},
		{"no finite points", func() (*Image, error) {
			return r.DepartmentTrends([]enrollment.Series{{Name: "x", Years: []float64{2020}, Values: []float64{math.Inf(1)}}})
		}},
		{"no products", func() (*Image, error) { return r.TopProducts(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := tt.render()
			require.Error(t, err)
			assert.Nil(t, img)
			assert.Equal(t, errors.CodeChartError, errors.GetCode(err))
		})
	}
}

func TestRenderAll(t *testing.T) {
	r := NewRenderer(640, 360)
	report := &analysis.EnrollmentReport{
		Years:            years(),
		DepartmentTrends: trends(),
		MetricTrends:     trends(),
	}

	images, err := RenderAll(context.Background(), r.EnrollmentJobs(report)...)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "percentage_by_major", images[0].Name)
	assert.Equal(t, "department_trends", images[1].Name)
	assert.Equal(t, "retention_satisfaction", images[2].Name)
}

func TestRenderAll_AnyFailureFailsTheSet(t *testing.T) {
	r := NewRenderer(640, 360)
	report := &analysis.EnrollmentReport{DepartmentTrends: trends(), MetricTrends: trends()}

	images, err := RenderAll(context.Background(), r.EnrollmentJobs(report)...)
	require.Error(t, err)
	assert.Nil(t, images)
}

func TestPaddedRange(t *testing.T) {
	lo, hi := paddedRange([]float64{5, 5}, 0.5)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = paddedRange([]float64{0, 10}, 0.1)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 11.0, hi)
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks([]float64{2021, 2020, 2021}, 2019.5, 2021.5)
	require.Len(t, ticks, 2)
	assert.Equal(t, "2020", ticks[0].Label)
	assert.Equal(t, "2021", ticks[1].Label)

	ticks = yearTicks([]float64{2020, 2020}, 2019, 2021)
	require.Len(t, ticks, 3)
	assert.Equal(t, 2019.0, ticks[0].Value)
	assert.Empty(t, ticks[0].Label)
	assert.Equal(t, "2020", ticks[1].Label)
	assert.Equal(t, 2021.0, ticks[2].Value)
	assert.Empty(t, ticks[2].Label)
}

func TestRetentionSatisfaction_SingleYear(t *testing.T) {
	series := []enrollment.Series{
		{Name: enrollment.ColumnRetention, Years: []float64{2020, 2020}, Values: []float64{82, 83}},
		{Name: enrollment.ColumnSatisfaction, Years: []float64{2020, 2020}, Values: []float64{75, 76}},
	}

	img, err := NewRenderer(640, 360).RetentionSatisfaction(series)
	require.NoError(t, err)
	assertPNG(t, img, 640, 360)
}

func TestRenderAll_PanicBecomesError(t *testing.T) {
	ok := func() (*Image, error) { return &Image{Name: "ok"}, nil }
	boom := func() (*Image, error) { panic("division by zero in axis") }

	var images []*Image
	var err error
	require.NotPanics(t, func() {
		images, err = RenderAll(context.Background(), ok, boom)
	})
	require.Error(t, err)
	assert.Nil(t, images)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "division by zero in axis")
}
