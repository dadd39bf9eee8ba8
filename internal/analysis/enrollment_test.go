package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"enrolldash/adapters/excel"
	"enrolldash/domain/enrollment"
	"enrolldash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Year,Term,Applications,Admitted,Enrolled,Retention Rate (%),Student Satisfaction (%),Engineering Enrolled,Business Enrolled,Arts Enrolled,Science Enrolled\n"

const wellFormed = header +
	"2022,Spring,2500,1400,1000,85.5,78.0,300,250,200,250\n" +
	"2022,Fall,2600,1500,1100,86.0,79.5,350,250,250,250\n" +
	"2020,Spring,2000,1200,800,82.0,75.0,200,200,200,200\n" +
	"2020,Fall,2100,1250,900,83.0,76.5,250,250,200,200\n" +
	"2021,Spring,2300,1300,700,84.0,77.0,210,140,140,210\n" +
	"2021,Spring,100,60,300,84.0,77.0,90,60,60,90\n"

func readTable(t *testing.T, csv string) *excel.RawTable {
	t.Helper()
	table, err := excel.NewDataReader("upload.csv").Read(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

func TestAggregate_OneRowPerYearAscending(t *testing.T) {
	df := readTable(t, wellFormed).DataFrame()

	grouped, err := Aggregate(df, "Spring")
	require.NoError(t, err)

	assert.Equal(t, 3, grouped.Nrow())
	assert.Equal(t, []float64{2020, 2021, 2022}, grouped.Col(enrollment.ColumnYear).Float())
	assert.Equal(t, []float64{800, 1000, 1000}, grouped.Col(enrollment.ColumnEnrolled).Float())
	assert.Equal(t, []float64{200, 300, 300}, grouped.Col(enrollment.ColumnEngineering).Float())
	assert.Equal(t, append([]string{"Year"}, enrollment.SummedColumns()...), grouped.Names())
}

func TestAggregate_SkipsMissingCells(t *testing.T) {
	csv := header +
		"2020,Spring,1,1,20,80,70,1,5,5,9\n" +
		"2020,Spring,1,1,,80,70,,0,0,0\n" +
		",Spring,1,1,50,80,70,10,10,10,20\n"

	grouped, err := Aggregate(readTable(t, csv).DataFrame(), "Spring")
	require.NoError(t, err)
	require.Equal(t, 1, grouped.Nrow())
	assert.Equal(t, []float64{2020}, grouped.Col(enrollment.ColumnYear).Float())
	assert.Equal(t, []float64{20}, grouped.Col(enrollment.ColumnEnrolled).Float())
	assert.Equal(t, []float64{1}, grouped.Col(enrollment.ColumnEngineering).Float())

	withPct, err := DerivePercentages(grouped)
	require.NoError(t, err)
	years, err := Summaries(withPct)
	require.NoError(t, err)
	require.Len(t, years, 1)
	assert.InDelta(t, 5.0, years[0].EngineeringPct, 1e-9)
	assert.InDelta(t, 100.0, years[0].PercentTotal(), 1e-9)
}

func TestAggregate_AllTermYearsMissing(t *testing.T) {
	csv := header +
		",Spring,1,1,20,80,70,5,5,5,5\n" +
		"2020,Fall,1,1,20,80,70,5,5,5,5\n"

	_, err := Aggregate(readTable(t, csv).DataFrame(), "Spring")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoMatchingRows, errors.GetCode(err))
}

func TestDerivePercentages_SumToHundred(t *testing.T) {
	grouped, err := Aggregate(readTable(t, wellFormed).DataFrame(), "Spring")
	require.NoError(t, err)
	withPct, err := DerivePercentages(grouped)
	require.NoError(t, err)

	years, err := Summaries(withPct)
	require.NoError(t, err)
	require.Len(t, years, 3)

	seen := map[int]bool{}
	for _, y := range years {
		assert.False(t, seen[y.Year], "year %d repeated", y.Year)
		seen[y.Year] = true
		assert.InDelta(t, 100.0, y.PercentTotal(), 1e-9, "year %d", y.Year)
	}

	assert.Equal(t, 2021, years[1].Year)
	assert.InDelta(t, 30.0, years[1].EngineeringPct, 1e-9)
	assert.InDelta(t, 20.0, years[1].BusinessPct, 1e-9)
	assert.InDelta(t, 25.0, years[0].ArtsPct, 1e-9)
}

func TestDerivePercentages_ZeroTotalIsNotGuarded(t *testing.T) {
	csv := header +
		"2020,Spring,0,0,0,80,70,0,0,0,0\n" +
		"2021,Spring,0,0,0,80,70,5,0,0,0\n"
	grouped, err := Aggregate(readTable(t, csv).DataFrame(), "Spring")
	require.NoError(t, err)
	withPct, err := DerivePercentages(grouped)
	require.NoError(t, err)
	years, err := Summaries(withPct)
	require.NoError(t, err)

	require.Len(t, years, 2)
	assert.True(t, math.IsNaN(years[0].EngineeringPct))
	assert.True(t, math.IsInf(years[1].EngineeringPct, 1))
	assert.False(t, years[0].HasFinitePercentages())
}

func TestAggregate_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		term string
		code string
	}{
		{
			name: "missing department column",
			csv:  "Year,Term,Enrolled,Engineering Enrolled,Business Enrolled,Arts Enrolled\n2020,Spring,10,1,2,3\n",
			term: "Spring",
			code: errors.CodeMissingColumn,
		},
		{
			name: "term is case sensitive",
			csv:  wellFormed,
			term: "spring",
			code: errors.CodeTermNotFound,
		},
		{
			name: "header only",
			csv:  header,
			term: "Spring",
			code: errors.CodeTermNotFound,
		},
		{
			name: "non numeric enrollment",
			csv:  header + "2020,Spring,1,1,many,80,70,1,1,1,1\n",
			term: "Spring",
			code: errors.CodeNonNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(readTable(t, tt.csv).DataFrame(), tt.term)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestTrendSeries_FileOrder(t *testing.T) {
	df := readTable(t, wellFormed).DataFrame()

	series, err := TrendSeries(df, enrollment.MetricTrendColumns())
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, enrollment.ColumnRetention, series[0].Name)
	assert.Equal(t, []float64{2022, 2022, 2020, 2020, 2021, 2021}, series[0].Years)
	assert.Equal(t, []float64{78.0, 79.5, 75.0, 76.5, 77.0, 77.0}, series[1].Values)
}

func TestAnalyze(t *testing.T) {
	report, err := Analyze(context.Background(), readTable(t, wellFormed), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Spring", report.Term)
	assert.Equal(t, 6, report.RowCount)
	assert.Len(t, report.Head.Rows, 5)
	assert.Len(t, report.Years, 3)
	assert.Len(t, report.DepartmentTrends, 4)
	assert.Len(t, report.MetricTrends, 2)
	assert.Contains(t, report.Description.Names(), enrollment.ColumnEnrolled)
	assert.NotContains(t, report.Description.Names(), enrollment.ColumnTerm)
}

func TestAnalyze_GenericErrorPath(t *testing.T) {
	tests := []struct {
		name  string
		table *excel.RawTable
		code  string
	}{
		{"nil table", nil, errors.CodeEmptyFile},
		{"no headers", &excel.RawTable{}, errors.CodeEmptyFile},
		{"missing metric column", &excel.RawTable{
			Headers: []string{"Year", "Term", "Enrolled", "Engineering Enrolled", "Business Enrolled", "Arts Enrolled", "Science Enrolled", "Retention Rate (%)"},
			Rows:    [][]string{{"2020", "Spring", "10", "1", "2", "3", "4", "80"}},
		}, errors.CodeMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Analyze(context.Background(), tt.table, DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, report)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Analyze(ctx, readTable(t, wellFormed), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
}

func TestRecoverInto(t *testing.T) {
	run := func() (out *int, err error) {
		v := 1
		out = &v
		defer recoverInto(&err, func() { out = nil })
		panic("index out of range")
	}

	out, err := run()
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "index out of range")
}

func TestHead(t *testing.T) {
	table := readTable(t, wellFormed)
	assert.Len(t, Head(table, 2).Rows, 2)
	assert.Len(t, Head(table, 50).Rows, 6)
	assert.Empty(t, Head(table, -1).Rows)
}
