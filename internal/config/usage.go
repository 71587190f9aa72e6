package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/polymul/internal/ui"
)

// setCustomUsage configures the flag set with a colored usage function.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// Respect NO_COLOR even before app initialization
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}

		out := fs.Output()

		fmt.Fprintf(out, "\n%sPolynomial Multiplication Benchmark%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Compares schoolbook and Karatsuba multiplication over a choice of rings.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}

			fmt.Fprintf(out, "  %s%-26s%s %s", t.Primary, flagSig, t.Reset, usage)

			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})

		fmt.Fprintf(out, "\n%sModes:%s\n", t.Warning, t.Reset)
		fmt.Fprintln(out, "  (default)    timing sweep, one report row per size")
		fmt.Fprintln(out, "  -demo        print sample products")
		fmt.Fprintln(out, "  -calibrate   pick the fastest Karatsuba threshold")
		fmt.Fprintln(out, "  -server      serve the HTTP API")
		fmt.Fprintln(out)
	}
}
