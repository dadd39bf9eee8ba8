package api

import (
	"math"
	"strconv"
	"time"

	"enrolldash/app"
	"enrolldash/domain/enrollment"
	"enrolldash/internal/analysis"
	"enrolldash/internal/charts"
	"enrolldash/models"
)

// Number is a float that encodes NaN and Inf as null
type Number float64

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(values []float64) []Number {
	out := make([]Number, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}

type runView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"`
	RowCount    int       `json:"row_count"`
	ResultCount int       `json:"result_count"`
	ErrorCode   string    `json:"error_code,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func newRunView(run *models.AnalysisRun) runView {
	return runView{
		ID:          run.ID.String(),
		Kind:        string(run.Kind),
		Filename:    run.Filename,
		Status:      string(run.Status),
		RowCount:    run.RowCount,
		ResultCount: run.ResultCount,
		ErrorCode:   run.ErrorCode,
		Error:       run.Error,
		DurationMS:  run.DurationMS,
		CreatedAt:   run.CreatedAt,
	}
}

func newRunViews(runs []*models.AnalysisRun) []runView {
	out := make([]runView, len(runs))
	for i, run := range runs {
		out[i] = newRunView(run)
	}
	return out
}

type columnView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Mean  Number `json:"mean"`
	Std   Number `json:"std"`
	Min   Number `json:"min"`
	Q25   Number `json:"25%"`
	Q50   Number `json:"50%"`
	Q75   Number `json:"75%"`
	Max   Number `json:"max"`
}

func newDescribeView(desc *analysis.Description) []columnView {
	if desc == nil {
		return nil
	}
	out := make([]columnView, len(desc.Columns))
	for i, c := range desc.Columns {
		out[i] = columnView{
			Name:  c.Name,
			Count: c.Count,
			Mean:  Number(c.Mean),
			Std:   Number(c.Std),
			Min:   Number(c.Min),
			Q25:   Number(c.Q25),
			Q50:   Number(c.Q50),
			Q75:   Number(c.Q75),
			Max:   Number(c.Max),
		}
	}
	return out
}

type yearView struct {
	Year           int    `json:"year"`
	Enrolled       Number `json:"enrolled"`
	Engineering    Number `json:"engineering_enrolled"`
	Business       Number `json:"business_enrolled"`
	Arts           Number `json:"arts_enrolled"`
	Science        Number `json:"science_enrolled"`
	EngineeringPct Number `json:"engineering_pct"`
	BusinessPct    Number `json:"business_pct"`
	ArtsPct        Number `json:"arts_pct"`
	SciencePct     Number `json:"science_pct"`
}

func newYearViews(years []enrollment.YearSummary) []yearView {
	out := make([]yearView, len(years))
	for i, y := range years {
		out[i] = yearView{
			Year:           y.Year,
			Enrolled:       Number(y.Enrolled),
			Engineering:    Number(y.Engineering),
			Business:       Number(y.Business),
			Arts:           Number(y.Arts),
			Science:        Number(y.Science),
			EngineeringPct: Number(y.EngineeringPct),
			BusinessPct:    Number(y.BusinessPct),
			ArtsPct:        Number(y.ArtsPct),
			SciencePct:     Number(y.SciencePct),
		}
	}
	return out
}

type seriesView struct {
	Name   string   `json:"name"`
	Years  []Number `json:"years"`
	Values []Number `json:"values"`
}

func newSeriesViews(series []enrollment.Series) []seriesView {
	out := make([]seriesView, len(series))
	for i, s := range series {
		out[i] = seriesView{Name: s.Name, Years: numbers(s.Years), Values: numbers(s.Values)}
	}
	return out
}

type chartView struct {
	Name        string               `json:"name"`
	Title       string               `json:"title"`
	PNG         []byte               `json:"png"`
	LegendTitle string               `json:"legend_title,omitempty"`
	Legend      []charts.LegendEntry `json:"legend,omitempty"`
}

func newChartViews(images []*charts.Image) []chartView {
	if len(images) == 0 {
		return nil
	}
	out := make([]chartView, len(images))
	for i, img := range images {
		out[i] = chartView{
			Name:        img.Name,
			Title:       img.Title,
			PNG:         img.PNG,
			LegendTitle: img.LegendTitle,
			Legend:      img.Legend,
		}
	}
	return out
}

type enrollmentView struct {
	Run              runView            `json:"run"`
	Term             string             `json:"term"`
	RowCount         int                `json:"row_count"`
	Head             analysis.HeadTable `json:"head"`
	Describe         []columnView       `json:"describe"`
	Years            []yearView         `json:"years"`
	DepartmentTrends []seriesView       `json:"department_trends"`
	MetricTrends     []seriesView       `json:"metric_trends"`
	Charts           []chartView        `json:"charts,omitempty"`
}

func newEnrollmentView(result *app.EnrollmentResult) enrollmentView {
	report := result.Report
	return enrollmentView{
		Run:              newRunView(result.Run),
		Term:             report.Term,
		RowCount:         report.RowCount,
		Head:             report.Head,
		Describe:         newDescribeView(report.Description),
		Years:            newYearViews(report.Years),
		DepartmentTrends: newSeriesViews(report.DepartmentTrends),
		MetricTrends:     newSeriesViews(report.MetricTrends),
		Charts:           newChartViews(result.Charts),
	}
}

type productTotalView struct {
	Code  string `json:"code"`
	Sales Number `json:"sales"`
}

type productView struct {
	Run         runView            `json:"run"`
	RowCount    int                `json:"row_count"`
	SubsetCount int                `json:"subset_count"`
	Codes       []string           `json:"codes"`
	Head        analysis.HeadTable `json:"head"`
	Describe    []columnView       `json:"describe"`
	Totals      []productTotalView `json:"totals"`
	Charts      []chartView        `json:"charts,omitempty"`
}

func newProductView(result *app.ProductResult) productView {
	report := result.Report
	totals := make([]productTotalView, len(report.Totals))
	for i, t := range report.Totals {
		totals[i] = productTotalView{Code: t.Code, Sales: Number(t.Sales)}
	}
	return productView{
		Run:         newRunView(result.Run),
		RowCount:    report.RowCount,
		SubsetCount: report.SubsetCount,
		Codes:       report.Codes,
		Head:        report.Head,
		Describe:    newDescribeView(report.Description),
		Totals:      totals,
		Charts:      newChartViews(result.Charts),
	}
}
