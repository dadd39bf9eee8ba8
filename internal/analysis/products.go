package analysis

import (
	"context"
	"sort"

	"enrolldash/adapters/excel"
	"enrolldash/domain/enrollment"
	"enrolldash/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ProductOptions selects the tracked products of a sales table
type ProductOptions struct {
	CodeColumn  string
	SalesColumn string
	Codes       []string
	TopN        int
	HeadRows    int
}

// ProductReport is everything the product view displays for one upload
type ProductReport struct {
	RowCount    int                       `json:"row_count"`
	SubsetCount int                       `json:"subset_count"`
	Codes       []string                  `json:"codes"`
	Head        HeadTable                 `json:"head"`
	Description *Description              `json:"describe"`
	Totals      []enrollment.ProductTotal `json:"totals"`
}

// FilterProducts keeps the rows whose code column is one of codes
func FilterProducts(df dataframe.DataFrame, codeColumn string, codes []string) (dataframe.DataFrame, error) {
	if err := requireColumns(df, codeColumn); err != nil {
		return dataframe.DataFrame{}, err
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.NoMatchingRows(codeColumn)
	}
	subset := df.Filter(dataframe.F{
		Colname:    codeColumn,
		Comparator: series.In,
		Comparando: codes,
	})
	if subset.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(subset.Err, "failed to filter %s", codeColumn)
	}
	if subset.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.NoMatchingRows(codeColumn)
	}
	return subset, nil
}

// ProductTotals sums sales per code, largest first; equal totals are ordered by code
func ProductTotals(subset dataframe.DataFrame, codeColumn, salesColumn string) ([]enrollment.ProductTotal, error) {
	if err := requireColumns(subset, codeColumn, salesColumn); err != nil {
		return nil, err
	}
	if err := requireNumeric(subset, salesColumn); err != nil {
		return nil, err
	}

	summed, err := sumBy(subset, codeColumn, []string{salesColumn})
	if err != nil {
		return nil, err
	}

	codes := summed.Col(codeColumn).Records()
	sales := summed.Col(salesColumn).Float()
	totals := make([]enrollment.ProductTotal, len(codes))
	for i := range codes {
		totals[i] = enrollment.ProductTotal{Code: codes[i], Sales: sales[i]}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Sales != totals[j].Sales {
			return totals[i].Sales > totals[j].Sales
		}
		return totals[i].Code < totals[j].Code
	})
	return totals, nil
}

// AnalyzeProducts filters the tracked product codes and totals their sales
func AnalyzeProducts(ctx context.Context, table *excel.RawTable, opts ProductOptions) (report *ProductReport, err error) {
	defer recoverInto(&err, func() { report = nil })

	if table == nil || len(table.Headers) == 0 {
		return nil, errors.EmptyFile()
	}
	if len(opts.Codes) == 0 {
		return nil, errors.InvalidInput("no product codes configured")
	}

	df := table.DataFrameWithTypes(map[string]series.Type{opts.CodeColumn: series.String})
	if df.Err != nil {
		return nil, &errors.AppError{Code: errors.CodeParseError, Message: "failed to load table", Cause: df.Err}
	}
	if err := requireColumns(df, opts.CodeColumn, opts.SalesColumn); err != nil {
		return nil, err
	}

	subset, err := FilterProducts(df, opts.CodeColumn, opts.Codes)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	totals, err := ProductTotals(subset, opts.CodeColumn, opts.SalesColumn)
	if err != nil {
		return nil, err
	}
	if opts.TopN > 0 && len(totals) > opts.TopN {
		totals = totals[:opts.TopN]
	}

	return &ProductReport{
		RowCount:    table.Len(),
		SubsetCount: subset.Nrow(),
		Codes:       opts.Codes,
		Head:        Head(table, opts.HeadRows),
		Description: Describe(subset),
		Totals:      totals,
	}, nil
}
