// Package bench runs the timing sweep that compares the schoolbook and
// Karatsuba multipliers. Each operand size is an independent unit of work:
// random operands are drawn from a seeded generator, every variant multiplies
// them Repeat times, and every product is checked against schoolbook.
package bench

import (
	"fmt"
	"time"

	"github.com/agbru/polymul/internal/config"
	"github.com/agbru/polymul/internal/polymul"
)

// Column names of the report.
const (
	ColumnSchoolbook        = "schoolbook"
	ColumnKaratsuba         = "karatsuba"
	ColumnKaratsubaParallel = "karatsuba_parallel"
)

// Variant is one multiplier configuration timed by the sweep.
type Variant struct {
	// Name is the report column, e.g. "karatsuba_t32".
	Name string
	// Schoolbook selects the direct convolution; Options is then ignored.
	Schoolbook bool
	// Options configures the Karatsuba multiplier.
	Options polymul.Options
}

// ThresholdColumn returns the column name of a Karatsuba variant with base
// case t.
func ThresholdColumn(t int) string {
	return fmt.Sprintf("karatsuba_t%d", t)
}

// Plan describes a sweep independently of how it was configured.
type Plan struct {
	// Ring names the coefficient ring; Modulus is used by "zmod".
	Ring    string
	Modulus uint64
	// Sizes are the operand lengths, one report row each.
	Sizes []int
	// Variants are the report columns. The first must be schoolbook, the
	// oracle every other product is compared to.
	Variants []Variant
	Seed     uint64
	Repeat   int
	Workers  int
}

// PlanFromConfig builds the sweep plan for cfg. The columns are schoolbook,
// karatsuba at cfg.Threshold, one karatsuba_t<k> per distinct extra
// threshold in ascending order, then karatsuba_parallel when a parallel
// threshold is set.
func PlanFromConfig(cfg config.AppConfig) Plan {
	variants := []Variant{
		{Name: ColumnSchoolbook, Schoolbook: true},
		{Name: ColumnKaratsuba, Options: polymul.Options{Threshold: cfg.Threshold}},
	}
	for _, t := range cfg.ExtraThresholds() {
		variants = append(variants, Variant{
			Name:    ThresholdColumn(t),
			Options: polymul.Options{Threshold: t},
		})
	}
	if cfg.ParallelThreshold > 0 {
		variants = append(variants, Variant{
			Name:    ColumnKaratsubaParallel,
			Options: cfg.KaratsubaOptions(),
		})
	}
	return Plan{
		Ring:     cfg.Ring,
		Modulus:  cfg.Modulus,
		Sizes:    cfg.SweepSizes(),
		Variants: variants,
		Seed:     cfg.Seed,
		Repeat:   max(cfg.Repeat, 1),
		Workers:  max(cfg.Workers, 1),
	}
}

// Columns returns the variant names in report order.
func (p Plan) Columns() []string {
	names := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		names[i] = v.Name
	}
	return names
}

// Timing summarizes the repetitions of one variant at one size.
type Timing struct {
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Median time.Duration
}

// Row holds the timings of one size, aligned with Plan.Variants.
type Row struct {
	Size    int
	Timings []Timing
}

// Report is the outcome of a sweep.
type Report struct {
	Ring     string
	Seed     uint64
	Repeat   int
	Columns  []string
	Rows     []Row
	Duration time.Duration
}

// Fastest returns the column with the lowest mean time in row i, ignoring
// schoolbook when skipOracle is set.
func (r Report) Fastest(i int, skipOracle bool) string {
	best, bestName := time.Duration(-1), ""
	for j, t := range r.Rows[i].Timings {
		if skipOracle && r.Columns[j] == ColumnSchoolbook {
			continue
		}
		if best < 0 || t.Mean < best {
			best, bestName = t.Mean, r.Columns[j]
		}
	}
	return bestName
}
