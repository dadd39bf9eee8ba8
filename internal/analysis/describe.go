package analysis

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DescribeRows are the statistic labels of a Description, top to bottom
var DescribeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// ColumnStats summarizes one numeric column. Missing cells are excluded from every statistic.
type ColumnStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// Values returns the statistics in DescribeRows order
func (c ColumnStats) Values() []float64 {
	return []float64{float64(c.Count), c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max}
}

// Description holds descriptive statistics for every numeric column of a table
type Description struct {
	Columns []ColumnStats `json:"columns"`
}

// Names returns the described column names
func (d *Description) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns one statistic across all columns, e.g. Row(1) is the means
func (d *Description) Row(i int) []float64 {
	row := make([]float64, len(d.Columns))
	for j, c := range d.Columns {
		row[j] = c.Values()[i]
	}
	return row
}

// Describe computes count, mean, sample std, min, quartiles and max of the numeric columns
func Describe(df dataframe.DataFrame) *Description {
	desc := &Description{}
	for _, name := range df.Names() {
		col := df.Col(name)
		if !isNumeric(col) {
			continue
		}
		desc.Columns = append(desc.Columns, describeValues(name, col.Float()))
	}
	return desc
}

func describeValues(name string, raw []float64) ColumnStats {
	values := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}

	cs := ColumnStats{Name: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	cs.Mean, cs.Std = stat.MeanStdDev(values, nil)
	cs.Min, _ = stats.Min(values)
	cs.Max, _ = stats.Max(values)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	cs.Q25 = quantileLinear(sorted, 0.25)
	cs.Q50 = quantileLinear(sorted, 0.50)
	cs.Q75 = quantileLinear(sorted, 0.75)
	return cs
}

// quantileLinear interpolates between the closest ranks (Hyndman-Fan type 7) on sorted data
func quantileLinear(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
