package analysis

import (
	"context"
	"fmt"
	"runtime/debug"

	"enrolldash/adapters/excel"
	"enrolldash/domain/enrollment"
	"enrolldash/internal"
	"enrolldash/internal/errors"
)

var logger = internal.DefaultLogger.Named("analysis")

// HeadTable is the first rows of an upload, as read
type HeadTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Head returns at most n leading rows of the raw table
func Head(table *excel.RawTable, n int) HeadTable {
	if n > table.Len() {
		n = table.Len()
	}
	if n < 0 {
		n = 0
	}
	return HeadTable{Headers: table.Headers, Rows: table.Rows[:n]}
}

// Options controls the enrollment analysis
type Options struct {
	Term     string
	HeadRows int
}

// DefaultOptions analyses the Spring term and previews five rows
func DefaultOptions() Options {
	return Options{Term: "Spring", HeadRows: 5}
}

// EnrollmentReport is everything the EDA view displays for one upload
type EnrollmentReport struct {
	Term             string                   `json:"term"`
	RowCount         int                      `json:"row_count"`
	Head             HeadTable                `json:"head"`
	Description      *Description             `json:"describe"`
	Years            []enrollment.YearSummary `json:"years"`
	DepartmentTrends []enrollment.Series      `json:"department_trends"`
	MetricTrends     []enrollment.Series      `json:"metric_trends"`
}

// Analyze runs the full EDA pipeline over an uploaded table. Any failure, including a
// panic inside a library, returns an error and no report.
func Analyze(ctx context.Context, table *excel.RawTable, opts Options) (report *EnrollmentReport, err error) {
	defer recoverInto(&err, func() { report = nil })

	if table == nil || len(table.Headers) == 0 {
		return nil, errors.EmptyFile()
	}
	if opts.Term == "" {
		opts.Term = DefaultOptions().Term
	}

	df := table.DataFrame()
	if df.Err != nil {
		return nil, &errors.AppError{Code: errors.CodeParseError, Message: "failed to load table", Cause: df.Err}
	}
	if err := requireColumns(df, append(enrollment.RequiredColumns(), enrollment.MetricTrendColumns()...)...); err != nil {
		return nil, err
	}

	grouped, err := Aggregate(df, opts.Term)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grouped, err = DerivePercentages(grouped)
	if err != nil {
		return nil, err
	}
	years, err := Summaries(grouped)
	if err != nil {
		return nil, err
	}

	deptTrends, err := TrendSeries(df, enrollment.DepartmentTrendColumns())
	if err != nil {
		return nil, err
	}
	metricTrends, err := TrendSeries(df, enrollment.MetricTrendColumns())
	if err != nil {
		return nil, err
	}

	logger.Debug("analysed %d rows, %d %s years", table.Len(), len(years), opts.Term)
	return &EnrollmentReport{
		Term:             opts.Term,
		RowCount:         table.Len(),
		Head:             Head(table, opts.HeadRows),
		Description:      Describe(df),
		Years:            years,
		DepartmentTrends: deptTrends,
		MetricTrends:     metricTrends,
	}, nil
}

// recoverInto turns a panic into an INTERNAL_ERROR and lets the caller clear partial results
func recoverInto(err *error, reset func()) {
	if r := recover(); r != nil {
		logger.Error("recovered from panic: %v\n%s", r, debug.Stack())
		*err = errors.New(errors.CodeInternalError, fmt.Sprintf("unexpected failure: %v", r))
		if reset != nil {
			reset()
		}
	}
}
