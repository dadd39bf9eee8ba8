// Package charts renders the dashboard figures to PNG
package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"sort"

	"enrolldash/domain/enrollment"
	"enrolldash/internal"
	"enrolldash/internal/errors"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var logger = internal.DefaultLogger.Named("charts")

// Chart titles and axis labels
const (
	TitlePercentageByMajor     = "Percentage of Enrolled Students by Major (Spring Term)"
	TitleDepartmentTrends      = "Trends in Enrolled Students by Department"
	TitleRetentionSatisfaction = "Retention Rate and Student Satisfaction by Year"
	TitleTopProducts           = "Top Products by Sales"

	labelYear       = "Year"
	labelPercentage = "Percentage"
	labelEnrolled   = "Number of Enrolled Students"
	labelSales      = "Sales"

	// LegendTitleMetrics heads the retention and satisfaction legend
	LegendTitleMetrics = "Metrics"
)

// Set3 holds the first colors of the ColorBrewer Set3 qualitative palette
var Set3 = []string{"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd"}

// Category10 is the default line cycle, blue then orange first
var Category10 = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"}

// LegendEntry names one color of a rendered chart
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Image is a rendered chart
type Image struct {
	Name        string
	Title       string
	PNG         []byte
	LegendTitle string
	Legend      []LegendEntry
}

// DataURI returns the PNG as an inline data URI for <img src>
func (i *Image) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(i.PNG)
}

// Renderer draws charts at a fixed size
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer, falling back to 900x480 for non-positive sizes
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 900
	}
	if height <= 0 {
		height = 480
	}
	return &Renderer{Width: width, Height: height}
}

func color(hex string) drawing.Color {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	return drawing.ColorFromHex(hex)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// PercentageByMajor draws one stacked bar per year from the four department shares.
// Non-finite shares are left out of their bar.
func (r *Renderer) PercentageByMajor(years []enrollment.YearSummary) (*Image, error) {
	if len(years) == 0 {
		return nil, errors.ChartError(TitlePercentageByMajor, "no years to plot")
	}

	bars := make([]chart.StackedBar, 0, len(years))
	for _, y := range years {
		bar := chart.StackedBar{Name: fmt.Sprintf("%d", y.Year), Width: barWidth(r.Width, len(years))}
		for i, pct := range y.Percentages() {
			if !finite(pct) {
				continue
			}
			fill := color(Set3[i%len(Set3)])
			bar.Values = append(bar.Values, chart.Value{
				Label: fmt.Sprintf("%.1f%%", pct),
				Value: pct,
				Style: chart.Style{FillColor: fill, StrokeColor: fill},
			})
		}
		bars = append(bars, bar)
	}

	legend := make([]LegendEntry, len(enrollment.Departments))
	for i, d := range enrollment.Departments {
		legend[i] = LegendEntry{Label: d.PercentageCol, Color: Set3[i%len(Set3)]}
	}

	sbc := chart.StackedBarChart{
		Title:      TitlePercentageByMajor,
		Width:      r.Width,
		Height:     r.Height,
		Background: background(),
		BarSpacing: barSpacing(r.Width, len(bars)),
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := sbc.Render(chart.PNG, &buf); err != nil {
		return nil, errors.ChartFailed(err, TitlePercentageByMajor)
	}
	return &Image{Name: "percentage_by_major", Title: TitlePercentageByMajor, PNG: buf.Bytes(), Legend: legend}, nil
}

// DepartmentTrends draws the four department enrollment columns against Year
func (r *Renderer) DepartmentTrends(series []enrollment.Series) (*Image, error) {
	return r.lines("department_trends", TitleDepartmentTrends, labelEnrolled, series, Category10)
}

// RetentionSatisfaction draws retention rate and satisfaction against Year
func (r *Renderer) RetentionSatisfaction(series []enrollment.Series) (*Image, error) {
	img, err := r.lines("retention_satisfaction", TitleRetentionSatisfaction, labelPercentage, series, Category10[:2])
	if err != nil {
		return nil, err
	}
	img.LegendTitle = LegendTitleMetrics
	return img, nil
}

func (r *Renderer) lines(name, title, yName string, series []enrollment.Series, palette []string) (*Image, error) {
	var (
		out    []chart.Series
		legend []LegendEntry
		xs, ys []float64
	)
	for i, s := range series {
		px, py := finitePoints(s.Years, s.Values)
		if len(px) == 0 {
			continue
		}
		c := palette[i%len(palette)]
		out = append(out, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: px,
			YValues: py,
			Style: chart.Style{
				StrokeColor: color(c),
				StrokeWidth: 2,
				DotColor:    color(c),
				DotWidth:    4,
			},
		})
		legend = append(legend, LegendEntry{Label: s.Name, Color: c})
		xs = append(xs, px...)
		ys = append(ys, py...)
	}
	if len(out) == 0 {
		return nil, errors.ChartError(title, "no finite points to plot")
	}

	xMin, xMax := paddedRange(xs, 0.5)
	yMin, yMax := paddedRange(ys, 0.05)

	ch := chart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:  labelYear,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: yearTicks(xs, xMin, xMax),
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: out,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.ChartFailed(err, title)
	}
	return &Image{Name: name, Title: title, PNG: buf.Bytes(), Legend: legend}, nil
}

// TopProducts draws one bar per product total, in the given order
func (r *Renderer) TopProducts(totals []enrollment.ProductTotal) (*Image, error) {
	if len(totals) == 0 {
		return nil, errors.ChartError(TitleTopProducts, "no products to plot")
	}

	bars := make([]chart.Value, len(totals))
	values := make([]float64, 0, len(totals))
	for i, t := range totals {
		v := t.Sales
		if !finite(v) {
			v = 0
		}
		c := color(Set3[i%len(Set3)])
		bars[i] = chart.Value{Label: t.Code, Value: v, Style: chart.Style{FillColor: c, StrokeColor: c}}
		values = append(values, v)
	}

	lo, hi := paddedRange(append(values, 0), 0.1)
	if lo > 0 {
		lo = 0
	}
	bc := chart.BarChart{
		Title:      TitleTopProducts,
		Width:      r.Width,
		Height:     r.Height,
		Background: background(),
		BarWidth:   barWidth(r.Width, len(bars)),
		BarSpacing: barSpacing(r.Width, len(bars)),
		YAxis: chart.YAxis{
			Name:  labelSales,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, errors.ChartFailed(err, TitleTopProducts)
	}
	return &Image{Name: "top_products", Title: TitleTopProducts, PNG: buf.Bytes()}, nil
}

func finitePoints(xs, ys []float64) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	px := make([]float64, 0, n)
	py := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if finite(xs[i]) && finite(ys[i]) {
			px = append(px, xs[i])
			py = append(py, ys[i])
		}
	}
	return px, py
}

// paddedRange widens [min, max] by frac of its span, or by one unit when the span is zero
func paddedRange(values []float64, frac float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		return lo - 1, hi + 1
	}
	return lo - span*frac, hi + span*frac
}

// yearTicks labels each distinct year. go-chart derives the axis range from explicit
// ticks, so a single year is bracketed by unlabeled ticks at lo and hi.
func yearTicks(xs []float64, lo, hi float64) []chart.Tick {
	seen := make(map[int]bool)
	var years []int
	for _, x := range xs {
		y := int(math.Round(x))
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	ticks := make([]chart.Tick, len(years))
	for i, y := range years {
		ticks[i] = chart.Tick{Value: float64(y), Label: fmt.Sprintf("%d", y)}
	}
	if len(ticks) < 2 {
		ticks = append([]chart.Tick{{Value: lo}}, append(ticks, chart.Tick{Value: hi})...)
	}
	return ticks
}

func barSpacing(width, n int) int {
	if n == 0 {
		return 0
	}
	return max(4, width/(n*4))
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	return max(8, width/(n*2))
}
