package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"enrolldash/domain/enrollment"
	"enrolldash/internal/analysis"

	"github.com/olekukonko/tablewriter"
)

func cell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pctCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func newTable(out io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	return table
}

func drawHead(out io.Writer, head analysis.HeadTable) {
	table := newTable(out, head.Headers)
	for _, row := range head.Rows {
		table.Append(row)
	}
	table.Render()
	fmt.Fprintln(out)
}

func drawDescribe(out io.Writer, desc *analysis.Description) {
	if desc == nil || len(desc.Columns) == 0 {
		return
	}
	table := newTable(out, append([]string{""}, desc.Names()...))
	for i, stat := range analysis.DescribeRows {
		row := []string{stat}
		for _, v := range desc.Row(i) {
			row = append(row, cell(v))
		}
		table.Append(row)
	}
	table.Render()
	fmt.Fprintln(out)
}

func drawYears(out io.Writer, years []enrollment.YearSummary) {
	headers := append([]string{enrollment.ColumnYear, enrollment.ColumnEnrolled}, enrollment.PercentageColumns()...)
	table := newTable(out, headers)
	for _, y := range years {
		row := []string{strconv.Itoa(y.Year), cell(y.Enrolled)}
		for _, p := range y.Percentages() {
			row = append(row, pctCell(p))
		}
		table.Append(row)
	}
	table.Render()
}

func drawTotals(out io.Writer, totals []enrollment.ProductTotal) {
	table := newTable(out, []string{"Product Code", "Sales"})
	for _, t := range totals {
		table.Append([]string{t.Code, cell(t.Sales)})
	}
	table.Render()
}
