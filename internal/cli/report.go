package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agbru/polymul/internal/bench"
	"github.com/agbru/polymul/internal/config"
	"github.com/agbru/polymul/internal/ui"
)

// microseconds renders d in µs with two decimals.
func microseconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Microsecond), 'f', 2, 64)
}

// csvHeader returns "size" followed by one "<column>_us" per variant.
func csvHeader(columns []string) []string {
	header := make([]string, 0, len(columns)+1)
	header = append(header, "size")
	for _, c := range columns {
		header = append(header, c+"_us")
	}
	return header
}

// WriteCSV writes the report as size,schoolbook_us,karatsuba_us,... with one
// line per size and the mean time of each variant in microseconds.
func WriteCSV(w io.Writer, report bench.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader(report.Columns)); err != nil {
		return err
	}
	record := make([]string, len(report.Columns)+1)
	for _, row := range report.Rows {
		record[0] = strconv.Itoa(row.Size)
		for j, t := range row.Timings {
			record[j+1] = microseconds(t.Mean)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes the report as an aligned table. The fastest Karatsuba
// variant of each row is marked with '*'.
func WriteTable(w io.Writer, report bench.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "size\t%s\t\n", strings.Join(report.Columns, " (µs)\t")+" (µs)")
	for i, row := range report.Rows {
		fastest := report.Fastest(i, true)
		fmt.Fprintf(tw, "%d\t", row.Size)
		for j, t := range row.Timings {
			mark := ""
			if report.Columns[j] == fastest {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s%s\t", mark, microseconds(t.Mean))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

type jsonTiming struct {
	MeanUs   float64 `json:"mean_us"`
	StdDevUs float64 `json:"stddev_us"`
	MinUs    float64 `json:"min_us"`
	MedianUs float64 `json:"median_us"`
}

type jsonRow struct {
	Size    int                   `json:"size"`
	Timings map[string]jsonTiming `json:"timings"`
	Fastest string                `json:"fastest"`
}

type jsonReport struct {
	Ring       string    `json:"ring"`
	Seed       uint64    `json:"seed"`
	Repeat     int       `json:"repeat"`
	Columns    []string  `json:"columns"`
	Rows       []jsonRow `json:"rows"`
	DurationMs int64     `json:"duration_ms"`
}

func toUs(d time.Duration) float64 { return float64(d) / float64(time.Microsecond) }

// WriteJSON writes the report as indented JSON, including the standard
// deviation, minimum and median of every measurement.
func WriteJSON(w io.Writer, report bench.Report) error {
	out := jsonReport{
		Ring:       report.Ring,
		Seed:       report.Seed,
		Repeat:     report.Repeat,
		Columns:    report.Columns,
		Rows:       make([]jsonRow, len(report.Rows)),
		DurationMs: report.Duration.Milliseconds(),
	}
	for i, row := range report.Rows {
		timings := make(map[string]jsonTiming, len(row.Timings))
		for j, t := range row.Timings {
			timings[report.Columns[j]] = jsonTiming{
				MeanUs:   toUs(t.Mean),
				StdDevUs: toUs(t.StdDev),
				MinUs:    toUs(t.Min),
				MedianUs: toUs(t.Median),
			}
		}
		out.Rows[i] = jsonRow{Size: row.Size, Timings: timings, Fastest: report.Fastest(i, true)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteReport renders report in the given format (csv, table or json).
func WriteReport(w io.Writer, report bench.Report, format string) error {
	switch format {
	case config.FormatCSV, "":
		return WriteCSV(w, report)
	case config.FormatTable:
		return WriteTable(w, report)
	case config.FormatJSON:
		return WriteJSON(w, report)
	default:
		return fmt.Errorf("unknown report format: %q", format)
	}
}

// SaveReport renders report and writes it atomically to path.
func SaveReport(path string, report bench.Report, format string) error {
	var buf bytes.Buffer
	if err := WriteReport(&buf, report, format); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes(), 0644)
}

// PrintSweepHeader displays the sweep configuration before it starts.
func PrintSweepHeader(out io.Writer, plan bench.Plan, timeout time.Duration) {
	fmt.Fprintf(out, "%s--- Sweep Configuration ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Ring %s%s%s, %s%d%s sizes from %d to %d, %d repetition(s), %d worker(s), timeout %s%s%s.\n",
		ui.ColorMagenta(), plan.Ring, ui.ColorReset(),
		ui.ColorCyan(), len(plan.Sizes), ui.ColorReset(),
		firstOr(plan.Sizes, 0), lastOr(plan.Sizes, 0),
		plan.Repeat, plan.Workers,
		ui.ColorYellow(), timeout, ui.ColorReset())
	fmt.Fprintf(out, "Variants: %s%s%s\n\n", ui.ColorBlue(), strings.Join(plan.Columns(), ", "), ui.ColorReset())
}

// PrintSweepSummary displays the total sweep time and, for the largest size,
// the fastest variant and its speedup over schoolbook.
func PrintSweepSummary(out io.Writer, report bench.Report) {
	fmt.Fprintf(out, "\n%sSweep completed in %s%s\n", ui.ColorGreen(), FormatDuration(report.Duration), ui.ColorReset())
	if len(report.Rows) == 0 {
		return
	}
	last := len(report.Rows) - 1
	row := report.Rows[last]
	fastest := report.Fastest(last, true)
	for j, c := range report.Columns {
		if c != fastest || row.Timings[j].Mean <= 0 {
			continue
		}
		speedup := float64(row.Timings[0].Mean) / float64(row.Timings[j].Mean)
		fmt.Fprintf(out, "Fastest at size %d: %s%s%s (%.2fx vs schoolbook)\n",
			row.Size, ui.ColorYellow(), c, ui.ColorReset(), speedup)
	}
}

func firstOr(xs []int, def int) int {
	if len(xs) == 0 {
		return def
	}
	return xs[0]
}

func lastOr(xs []int, def int) int {
	if len(xs) == 0 {
		return def
	}
	return xs[len(xs)-1]
}
