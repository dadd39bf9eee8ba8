package excel

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// RawTable is an uploaded table before type detection. Every row has len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// Records returns the header followed by the data rows
func (t *RawTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Headers)
	records = append(records, t.Rows...)
	return records
}

// DataFrame loads the table into a typed dataframe. Column types are detected from the values;
// a header-only table becomes a zero-row frame of string columns.
func (t *RawTable) DataFrame() dataframe.DataFrame {
	if len(t.Rows) == 0 {
		return t.emptyFrame()
	}
	return dataframe.LoadRecords(t.Records(),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
}

// DataFrameWithTypes is DataFrame with some column types fixed instead of detected
func (t *RawTable) DataFrameWithTypes(types map[string]series.Type) dataframe.DataFrame {
	if len(t.Rows) == 0 {
		return t.emptyFrame()
	}
	return dataframe.LoadRecords(t.Records(),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
	)
}

func (t *RawTable) emptyFrame() dataframe.DataFrame {
	columns := make([]series.Series, len(t.Headers))
	for i, h := range t.Headers {
		columns[i] = series.New([]string{}, series.String, h)
	}
	return dataframe.New(columns...)
}
