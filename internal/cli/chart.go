package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/agbru/polymul/internal/bench"
)

// NewTimingChart builds an interactive line chart of report: operand length
// on the x axis, mean time in µs on a logarithmic y axis, one series per
// variant.
func NewTimingChart(report bench.Report) *charts.Line {
	title := fmt.Sprintf("Polynomial multiplication over %s", report.Ring)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("seed %d, %d repetition(s), mean time per product", report.Seed, report.Repeat),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "size"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "µs", Type: "log"}),
	)

	sizes := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		sizes[i] = strconv.Itoa(row.Size)
	}
	line.SetXAxis(sizes)

	for j, column := range report.Columns {
		data := make([]opts.LineData, len(report.Rows))
		for i, row := range report.Rows {
			data[i] = opts.LineData{Value: toUs(row.Timings[j].Mean)}
		}
		line.AddSeries(column, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}))
	}
	return line
}

// WriteChart renders the timing chart of report as a standalone HTML page.
func WriteChart(w io.Writer, report bench.Report) error {
	return NewTimingChart(report).Render(w)
}

// SaveChart writes the timing chart of report atomically to path.
func SaveChart(path string, report bench.Report) error {
	var buf bytes.Buffer
	if err := WriteChart(&buf, report); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return WriteFileAtomic(path, buf.Bytes(), 0644)
}
