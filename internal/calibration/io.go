package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/polymul/internal/cli"
	"github.com/agbru/polymul/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, res *Result) {
	fmt.Fprintf(out, "\n--- Calibration Summary (size %d) ---\n", res.Size)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreshold%s    │ %sExecution Time%s │ %sSpeedup%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 16), strings.Repeat("─", 10))
	for _, c := range res.Candidates {
		durationStr := cli.FormatDuration(c.Duration)
		if c.Duration == 0 {
			durationStr = "< 1µs"
		}
		highlight := ""
		if c.Threshold == res.BestThreshold {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12d%s │ %s%-14s%s │ %.2fx%s\n",
			ui.ColorCyan(), c.Threshold, ui.ColorReset(),
			ui.ColorYellow(), durationStr, ui.ColorReset(),
			c.Speedup(), highlight)
	}
	tw.Flush()

	if len(res.BySize) > 1 {
		fmt.Fprintf(out, "\nFastest threshold by size:")
		for _, s := range res.BySize {
			fmt.Fprintf(out, " %d→%s%d%s", s.Size, ui.ColorYellow(), s.Threshold, ui.ColorReset())
		}
		fmt.Fprintln(out)
	}
}
