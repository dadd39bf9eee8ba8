package analysis

import (
	"math"

	"enrolldash/domain/enrollment"
	"enrolldash/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Aggregate keeps the rows whose Term equals term exactly, groups them by Year and
// sums the enrollment columns. One row per distinct year, ascending.
func Aggregate(df dataframe.DataFrame, term string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, &errors.AppError{Code: errors.CodeParseError, Message: "failed to load table", Cause: df.Err}
	}
	if err := requireColumns(df, enrollment.RequiredColumns()...); err != nil {
		return dataframe.DataFrame{}, err
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.TermNotFound(term)
	}

	filtered := df.Filter(dataframe.F{
		Colname:    enrollment.ColumnTerm,
		Comparator: series.Eq,
		Comparando: term,
	})
	if filtered.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(filtered.Err, "failed to filter term %s", term)
	}
	if filtered.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.TermNotFound(term)
	}
	if err := requireNumeric(filtered, append([]string{enrollment.ColumnYear}, enrollment.SummedColumns()...)...); err != nil {
		return dataframe.DataFrame{}, err
	}

	return sumBy(filtered, enrollment.ColumnYear, enrollment.SummedColumns())
}

// DerivePercentages appends each department's share of Enrolled, times 100.
// A zero total is not guarded: the share is NaN (0/0) or +Inf (n/0).
func DerivePercentages(grouped dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(grouped, enrollment.SummedColumns()...); err != nil {
		return dataframe.DataFrame{}, err
	}

	total := grouped.Col(enrollment.ColumnEnrolled).Float()
	for _, dept := range enrollment.Departments {
		counts := grouped.Col(dept.EnrolledCol).Float()
		pct := make([]float64, len(counts))
		for i := range counts {
			pct[i] = percentOf(counts[i], total[i])
		}
		grouped = grouped.Mutate(series.New(pct, series.Float, dept.PercentageCol))
		if grouped.Err != nil {
			return dataframe.DataFrame{}, errors.Wrapf(grouped.Err, "failed to add %s", dept.PercentageCol)
		}
	}
	return grouped, nil
}

func percentOf(part, total float64) float64 {
	return part / total * 100
}

// Summaries converts the grouped table with percentages into typed rows
func Summaries(grouped dataframe.DataFrame) ([]enrollment.YearSummary, error) {
	required := append([]string{enrollment.ColumnYear}, enrollment.SummedColumns()...)
	required = append(required, enrollment.PercentageColumns()...)
	if err := requireColumns(grouped, required...); err != nil {
		return nil, err
	}

	years := grouped.Col(enrollment.ColumnYear).Float()
	col := func(name string) []float64 { return grouped.Col(name).Float() }
	enrolled := col(enrollment.ColumnEnrolled)
	eng, bus, arts, sci := col(enrollment.ColumnEngineering), col(enrollment.ColumnBusiness), col(enrollment.ColumnArts), col(enrollment.ColumnScience)
	engPct, busPct, artsPct, sciPct := col(enrollment.ColumnEngineeringPct), col(enrollment.ColumnBusinessPct), col(enrollment.ColumnArtsPct), col(enrollment.ColumnSciencePct)

	summaries := make([]enrollment.YearSummary, len(years))
	for i := range years {
		summaries[i] = enrollment.YearSummary{
			Year:           int(math.Round(years[i])),
			Enrolled:       enrolled[i],
			Engineering:    eng[i],
			Business:       bus[i],
			Arts:           arts[i],
			Science:        sci[i],
			EngineeringPct: engPct[i],
			BusinessPct:    busPct[i],
			ArtsPct:        artsPct[i],
			SciencePct:     sciPct[i],
		}
	}
	return summaries, nil
}

// TrendSeries reads each column against Year in file order, one series per column
func TrendSeries(df dataframe.DataFrame, columns []string) ([]enrollment.Series, error) {
	if err := requireColumns(df, append([]string{enrollment.ColumnYear}, columns...)...); err != nil {
		return nil, err
	}
	if err := requireNumeric(df, append([]string{enrollment.ColumnYear}, columns...)...); err != nil {
		return nil, err
	}

	years := df.Col(enrollment.ColumnYear).Float()
	out := make([]enrollment.Series, 0, len(columns))
	for _, c := range columns {
		out = append(out, enrollment.Series{
			Name:   c,
			Years:  years,
			Values: df.Col(c).Float(),
		})
	}
	return out, nil
}
