package analysis

import (
	"fmt"
	"math"
	"sort"

	"enrolldash/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// requireColumns fails with MISSING_COLUMN on the first absent column
func requireColumns(df dataframe.DataFrame, columns ...string) error {
	for _, col := range columns {
		if !hasColumn(df, col) {
			return errors.MissingColumn(col)
		}
	}
	return nil
}

func isNumeric(s series.Series) bool {
	t := s.Type()
	return t == series.Int || t == series.Float
}

// requireNumeric fails with NON_NUMERIC when a column was not detected as int or float
func requireNumeric(df dataframe.DataFrame, columns ...string) error {
	for _, col := range columns {
		if !isNumeric(df.Col(col)) {
			return errors.NonNumeric(col)
		}
	}
	return nil
}

// sumBy groups df by key and sums each of columns, sorted ascending by key. Missing
// values are skipped, so a group whose cells are all missing sums to 0. Rows with a
// missing key are dropped.
func sumBy(df dataframe.DataFrame, key string, columns []string) (dataframe.DataFrame, error) {
	if err := requireColumns(df, append([]string{key}, columns...)...); err != nil {
		return dataframe.DataFrame{}, err
	}

	keyCol := df.Col(key)
	numericKey := isNumeric(keyCol)
	values := make([][]float64, len(columns))
	for j, c := range columns {
		values[j] = df.Col(c).Float()
	}

	index := make(map[string]*keyGroup)
	var groups []*keyGroup
	for i := 0; i < df.Nrow(); i++ {
		e := keyCol.Elem(i)
		if e.IsNA() {
			continue
		}
		label := e.String()
		g, ok := index[label]
		if !ok {
			g = &keyGroup{label: label, num: e.Float(), sums: make([]float64, len(columns))}
			index[label] = g
			groups = append(groups, g)
		}
		for j := range columns {
			if v := values[j][i]; !math.IsNaN(v) {
				g.sums[j] += v
			}
		}
	}
	if len(groups) == 0 {
		return dataframe.DataFrame{}, errors.New(errors.CodeNoMatchingRows, fmt.Sprintf("no rows with a value in column %q", key))
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if numericKey {
			return groups[a].num < groups[b].num
		}
		return groups[a].label < groups[b].label
	})

	out := make([]series.Series, 0, len(columns)+1)
	out = append(out, keySeries(keyCol.Type(), key, groups))
	for j, c := range columns {
		sums := make([]float64, len(groups))
		for i, g := range groups {
			sums[i] = g.sums[j]
		}
		out = append(out, series.New(sums, series.Float, c))
	}

	agg := dataframe.New(out...)
	if agg.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(agg.Err, "failed to sum by %s", key)
	}
	return agg, nil
}

// keyGroup accumulates the sums of one distinct key
type keyGroup struct {
	label string
	num   float64
	sums  []float64
}

// keySeries rebuilds the group key column with the type of the source column
func keySeries(typ series.Type, name string, groups []*keyGroup) series.Series {
	switch typ {
	case series.Int:
		ints := make([]int, len(groups))
		for i, g := range groups {
			ints[i] = int(g.num)
		}
		return series.New(ints, series.Int, name)
	case series.Float:
		floats := make([]float64, len(groups))
		for i, g := range groups {
			floats[i] = g.num
		}
		return series.New(floats, series.Float, name)
	default:
		labels := make([]string, len(groups))
		for i, g := range groups {
			labels[i] = g.label
		}
		return series.New(labels, series.String, name)
	}
}
