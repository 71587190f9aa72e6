package bench

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ring"
)

// ProgressFunc is told how many of the total units have completed. It is
// called from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int)

// Sampler draws one random ring element.
type Sampler[E any] func(rng *rand.Rand) E

// Run executes plan over the ring it names.
//
// Sizes are fanned out on an errgroup limited to plan.Workers goroutines; each
// unit writes only its own row. The context is checked before each unit and
// between repetitions, never inside a multiplication. The first mismatch
// against schoolbook is returned as an apperrors.MismatchError and cancels the
// remaining units.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - plan: The sizes and variants to measure.
//   - log: Receives a debug entry per completed unit. May be nil.
//   - progress: Optional progress callback.
//
// Returns:
//   - Report: The timings, rows in the order of plan.Sizes.
//   - error: A context error, an unknown ring, or a MismatchError.
func Run(ctx context.Context, plan Plan, log logging.Logger, progress ProgressFunc) (Report, error) {
	switch plan.Ring {
	case ring.NameInt64:
		return RunRing(ctx, ring.Int64{}, SampleInt64, plan, log, progress)
	case ring.NameFloat64:
		return RunRing(ctx, ring.Float64{}, SampleSmallInts[float64](ring.Float64{}), plan, log, progress)
	case ring.NameZMod:
		r, err := ring.NewZMod(plan.Modulus)
		if err != nil {
			return Report{}, apperrors.NewConfigError("%v", err)
		}
		return RunRing(ctx, r, SampleZMod(r), plan, log, progress)
	case ring.NameBN254:
		return RunRing(ctx, ring.BN254{}, SampleBN254, plan, log, progress)
	case ring.NameBLS12377:
		return RunRing(ctx, ring.BLS12377{}, SampleBLS12377, plan, log, progress)
	case ring.NameUint256:
		return RunRing(ctx, ring.Uint256{}, SampleUint256, plan, log, progress)
	default:
		return Report{}, apperrors.NewConfigError("unrecognized ring: '%s'", plan.Ring)
	}
}

// RunRing executes plan over r, drawing operands with sample.
func RunRing[E any](ctx context.Context, r ring.Ring[E], sample Sampler[E], plan Plan, log logging.Logger, progress ProgressFunc) (Report, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if len(plan.Variants) == 0 || !plan.Variants[0].Schoolbook {
		return Report{}, fmt.Errorf("bench: first variant must be schoolbook")
	}

	start := time.Now()
	rows := make([]Row, len(plan.Sizes))
	total := len(plan.Sizes)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(plan.Workers, 1))

	for i, size := range plan.Sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			unitStart := time.Now()
			row, err := measure(ctx, r, sample, plan, size)
			if err != nil {
				return err
			}
			rows[i] = row
			log.Debug("unit done",
				logging.Int("size", size),
				logging.String("ring", r.Name()),
				logging.Duration("elapsed", time.Since(unitStart)),
			)
			if progress != nil {
				progress(int(done.Add(1)), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return Report{
		Ring:     r.Name(),
		Seed:     plan.Seed,
		Repeat:   plan.Repeat,
		Columns:  plan.Columns(),
		Rows:     rows,
		Duration: time.Since(start),
	}, nil
}

// Operands returns the two random operands of length size used for seed.
// The stream depends only on seed and size, so a row is reproducible
// whatever the worker schedule.
func Operands[E any](r ring.Ring[E], sample Sampler[E], seed uint64, size int) (poly.Polynomial[E], poly.Polynomial[E]) {
	rng := rand.New(rand.NewPCG(seed, uint64(size)))
	a := make([]E, size)
	b := make([]E, size)
	for i := range a {
		a[i] = sample(rng)
	}
	for i := range b {
		b[i] = sample(rng)
	}
	return poly.Adopt(r, a), poly.Adopt(r, b)
}

func measure[E any](ctx context.Context, r ring.Ring[E], sample Sampler[E], plan Plan, size int) (Row, error) {
	a, b := Operands(r, sample, plan.Seed, size)
	repeat := max(plan.Repeat, 1)

	row := Row{Size: size, Timings: make([]Timing, len(plan.Variants))}
	var oracle poly.Polynomial[E]
	samples := make([]float64, repeat)

	for j, v := range plan.Variants {
		var product poly.Polynomial[E]
		for k := range repeat {
			if err := ctx.Err(); err != nil {
				return Row{}, err
			}
			t0 := time.Now()
			product = multiply(a, b, v)
			samples[k] = float64(time.Since(t0))
		}
		row.Timings[j] = summarize(samples)

		if j == 0 {
			oracle = product
			continue
		}
		if idx := firstDifference(oracle, product); idx >= 0 {
			return Row{}, apperrors.NewMismatchError(size, v.Name, idx)
		}
	}
	return row, nil
}

func multiply[E any](a, b poly.Polynomial[E], v Variant) poly.Polynomial[E] {
	if v.Schoolbook {
		return polymul.MultiplySchoolbook(a, b)
	}
	return polymul.MultiplyKaratsubaWith(a, b, v.Options)
}

// summarize reduces nanosecond samples to a Timing. samples is not modified.
func summarize(samples []float64) Timing {
	mean, std := stat.MeanStdDev(samples, nil)
	if len(samples) < 2 {
		std = 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return Timing{
		Mean:   time.Duration(mean),
		StdDev: time.Duration(std),
		Min:    time.Duration(floats.Min(samples)),
		Median: time.Duration(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
	}
}

// firstDifference returns the first index at which x and y differ, treating
// missing entries as zero, or -1 if they are equal.
func firstDifference[E any](x, y poly.Polynomial[E]) int {
	r := x.Ring()
	for i := range max(x.Len(), y.Len()) {
		if !r.Equal(x.Coeff(i), y.Coeff(i)) {
			return i
		}
	}
	return -1
}
