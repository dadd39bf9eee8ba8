package enrollment

import "math"

// Raw table columns
const (
	ColumnTerm         = "Term"
	ColumnYear         = "Year"
	ColumnEnrolled     = "Enrolled"
	ColumnEngineering  = "Engineering Enrolled"
	ColumnBusiness     = "Business Enrolled"
	ColumnArts         = "Arts Enrolled"
	ColumnScience      = "Science Enrolled"
	ColumnRetention    = "Retention Rate (%)"
	ColumnSatisfaction = "Student Satisfaction (%)"
)

// Derived percentage columns
const (
	ColumnEngineeringPct = "Engineering %"
	ColumnBusinessPct    = "Business %"
	ColumnArtsPct        = "Arts %"
	ColumnSciencePct     = "Science %"
)

// Department pairs an enrollment column with its derived percentage column
type Department struct {
	Name          string
	EnrolledCol   string
	PercentageCol string
}

// Departments lists the four departments in display order
var Departments = []Department{
	{Name: "Engineering", EnrolledCol: ColumnEngineering, PercentageCol: ColumnEngineeringPct},
	{Name: "Business", EnrolledCol: ColumnBusiness, PercentageCol: ColumnBusinessPct},
	{Name: "Arts", EnrolledCol: ColumnArts, PercentageCol: ColumnArtsPct},
	{Name: "Science", EnrolledCol: ColumnScience, PercentageCol: ColumnSciencePct},
}

// SummedColumns are the enrollment columns summed per year
func SummedColumns() []string {
	cols := []string{ColumnEnrolled}
	for _, d := range Departments {
		cols = append(cols, d.EnrolledCol)
	}
	return cols
}

// RequiredColumns are the columns the aggregation step reads
func RequiredColumns() []string {
	return append([]string{ColumnTerm, ColumnYear}, SummedColumns()...)
}

// PercentageColumns are the derived columns in department order
func PercentageColumns() []string {
	cols := make([]string, 0, len(Departments))
	for _, d := range Departments {
		cols = append(cols, d.PercentageCol)
	}
	return cols
}

// DepartmentTrendColumns are plotted per raw row in the department trend chart
func DepartmentTrendColumns() []string {
	cols := make([]string, 0, len(Departments))
	for _, d := range Departments {
		cols = append(cols, d.EnrolledCol)
	}
	return cols
}

// MetricTrendColumns are plotted per raw row in the retention/satisfaction chart
func MetricTrendColumns() []string {
	return []string{ColumnRetention, ColumnSatisfaction}
}

// YearSummary is one row of the grouped table
type YearSummary struct {
	Year           int     `json:"year"`
	Enrolled       float64 `json:"enrolled"`
	Engineering    float64 `json:"engineering_enrolled"`
	Business       float64 `json:"business_enrolled"`
	Arts           float64 `json:"arts_enrolled"`
	Science        float64 `json:"science_enrolled"`
	EngineeringPct float64 `json:"engineering_pct"`
	BusinessPct    float64 `json:"business_pct"`
	ArtsPct        float64 `json:"arts_pct"`
	SciencePct     float64 `json:"science_pct"`
}

// Percentages returns the four department percentages in department order
func (y YearSummary) Percentages() []float64 {
	return []float64{y.EngineeringPct, y.BusinessPct, y.ArtsPct, y.SciencePct}
}

// PercentTotal sums the four percentages. NaN or Inf when the year's total is zero.
func (y YearSummary) PercentTotal() float64 {
	total := 0.0
	for _, p := range y.Percentages() {
		total += p
	}
	return total
}

// HasFinitePercentages reports whether every percentage is a real number
func (y YearSummary) HasFinitePercentages() bool {
	for _, p := range y.Percentages() {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return false
		}
	}
	return true
}

// Series is a named sequence of points plotted against the year column
type Series struct {
	Name   string    `json:"name"`
	Years  []float64 `json:"years"`
	Values []float64 `json:"values"`
}

// ProductTotal is the summed sales of one product code
type ProductTotal struct {
	Code  string  `json:"code"`
	Sales float64 `json:"sales"`
}
