package calibration

import (
	"context"
	"time"

	"github.com/agbru/polymul/internal/bench"
	"github.com/agbru/polymul/internal/config"
	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/polymul"
)

// calibrationRunner encapsulates the trial run logic for calibration.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
	base     bench.Plan
	log      logging.Logger
}

// newCalibrationRunner creates a new calibration runner. Every trial gets a
// share of the overall timeout.
func newCalibrationRunner(ctx context.Context, cfg config.AppConfig, log logging.Logger) *calibrationRunner {
	perTrial := cfg.Timeout / 4
	if perTrial < 2*time.Second {
		perTrial = 2 * time.Second
	}
	return &calibrationRunner{
		ctx:      ctx,
		perTrial: perTrial,
		base: bench.Plan{
			Ring:    cfg.Ring,
			Modulus: cfg.Modulus,
			Seed:    cfg.Seed,
			Repeat:  max(cfg.Repeat, 1),
			Workers: 1,
		},
		log: log,
	}
}

// runTrial times schoolbook and the given Karatsuba variants at one size.
// Every product is checked against schoolbook.
//
// Returns:
//   - bench.Row: Timings, schoolbook first then variants in order.
//   - error: A context or mismatch error.
func (r *calibrationRunner) runTrial(size int, variants []bench.Variant) (bench.Row, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()

	plan := r.base
	plan.Sizes = []int{size}
	plan.Variants = append([]bench.Variant{{Name: bench.ColumnSchoolbook, Schoolbook: true}}, variants...)

	report, err := bench.Run(ctx, plan, r.log, nil)
	if err != nil {
		return bench.Row{}, err
	}
	return report.Rows[0], nil
}

// findBestThreshold times every candidate base case at size.
//
// Returns:
//   - SizeThreshold: The fastest candidate with its timing against schoolbook.
//   - []ThresholdResult: One entry per candidate.
//   - error: A context or mismatch error.
func (r *calibrationRunner) findBestThreshold(size int, candidates []int) (SizeThreshold, []ThresholdResult, error) {
	variants := make([]bench.Variant, len(candidates))
	for i, t := range candidates {
		variants[i] = bench.Variant{Name: bench.ThresholdColumn(t), Options: polymul.Options{Threshold: t}}
	}

	row, err := r.runTrial(size, variants)
	if err != nil {
		return SizeThreshold{}, nil, err
	}

	schoolbook := row.Timings[0].Mean
	best := SizeThreshold{Size: size, SchoolbookNs: schoolbook.Nanoseconds()}
	results := make([]ThresholdResult, len(candidates))
	for i, t := range candidates {
		mean := row.Timings[i+1].Mean
		results[i] = ThresholdResult{Threshold: t, Duration: mean, Schoolbook: schoolbook}
		if best.Threshold == 0 || mean.Nanoseconds() < best.KaratsubaNs {
			best.Threshold, best.KaratsubaNs = t, mean.Nanoseconds()
		}
	}
	return best, results, nil
}

// findBestParallelThreshold times the parallel multiplier with base case
// threshold at each candidate parallel threshold.
//
// Returns:
//   - int: The fastest parallel threshold (0 means sequential).
//   - time.Duration: Its mean time.
//   - error: A context or mismatch error.
func (r *calibrationRunner) findBestParallelThreshold(size, threshold int, candidates []int) (int, time.Duration, error) {
	variants := make([]bench.Variant, len(candidates))
	for i, c := range candidates {
		variants[i] = bench.Variant{
			Name: bench.ColumnKaratsubaParallel,
			Options: polymul.Options{
				Threshold:         threshold,
				ParallelThreshold: c,
			},
		}
	}

	row, err := r.runTrial(size, variants)
	if err != nil {
		return 0, 0, err
	}

	best, bestDur := 0, time.Duration(-1)
	for i, c := range candidates {
		mean := row.Timings[i+1].Mean
		if bestDur < 0 || mean < bestDur {
			best, bestDur = c, mean
		}
	}
	return best, bestDur, nil
}
