package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/polymul/internal/config"
	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ui"
)

// CalibrationOptions tunes one calibration run.
type CalibrationOptions struct {
	// ProfilePath overrides the default profile location.
	ProfilePath string
	// Save writes the result as the new profile.
	Save bool
	// UseCached skips measuring when a valid profile for the ring exists.
	UseCached bool
	// Quick tests fewer sizes and every other threshold.
	Quick bool
}

// ThresholdResult is the timing of one candidate threshold at the
// recommendation size.
type ThresholdResult struct {
	Threshold  int
	Duration   time.Duration
	Schoolbook time.Duration
}

// Speedup returns schoolbook time over this candidate's time.
func (t ThresholdResult) Speedup() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.Schoolbook) / float64(t.Duration)
}

// Result is the outcome of a calibration.
type Result struct {
	Ring string
	// Size is the largest calibrated size; Candidates were timed there.
	Size       int
	Candidates []ThresholdResult
	// BySize holds the fastest threshold at every calibrated size.
	BySize                []SizeThreshold
	BestThreshold         int
	BestParallelThreshold int
	Duration              time.Duration
}

// Calibrate measures the candidate thresholds for cfg.Ring and returns the
// fastest. It neither prints nor saves anything.
func Calibrate(ctx context.Context, cfg config.AppConfig, opts CalibrationOptions, log logging.Logger) (*Result, error) {
	start := time.Now()
	runner := newCalibrationRunner(ctx, cfg, log)

	sizes := CalibrationSizes
	if opts.Quick {
		sizes = QuickCalibrationSizes
	}

	res := &Result{Ring: cfg.Ring, Size: sizes[len(sizes)-1]}
	for _, size := range sizes {
		candidates := GenerateThresholds(cfg.Ring, size)
		if opts.Quick {
			candidates = GenerateQuickThresholds(cfg.Ring, size)
		}
		best, results, err := runner.findBestThreshold(size, candidates)
		if err != nil {
			return nil, err
		}
		res.BySize = append(res.BySize, best)
		if size == res.Size {
			res.Candidates = results
			res.BestThreshold = best.Threshold
		}
	}

	par, _, err := runner.findBestParallelThreshold(res.Size, res.BestThreshold, GenerateParallelThresholds(res.Size))
	if err != nil {
		return nil, err
	}
	res.BestParallelThreshold = par
	res.Duration = time.Since(start)
	return res, nil
}

// Profile converts the result into a profile for the current hardware.
func (r *Result) Profile() *CalibrationProfile {
	profile := NewProfile(r.Ring)
	profile.OptimalThreshold = r.BestThreshold
	profile.OptimalParallelThreshold = r.BestParallelThreshold
	for _, s := range r.BySize {
		profile.AddSizeThreshold(s)
	}
	profile.CalibrationTime = r.Duration.String()
	return profile
}

// RunCalibration measures the thresholds for cfg.Ring from scratch, prints
// the summary and a recommendation, and saves the profile. It returns the
// process exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer, log logging.Logger) int {
	return RunCalibrationWithOptions(ctx, cfg, out, log, CalibrationOptions{
		ProfilePath: cfg.CalibrationProfile,
		Save:        true,
	})
}

// RunCalibrationWithOptions is RunCalibration with explicit options.
func RunCalibrationWithOptions(ctx context.Context, cfg config.AppConfig, out io.Writer, log logging.Logger, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Karatsuba threshold for %s ---\n", cfg.Ring)
	green, yellow, reset := ui.ColorGreen(), ui.ColorYellow(), ui.ColorReset()
	where := profilePath(opts.ProfilePath)

	if opts.UseCached {
		if p, ok := LoadOrCreateProfile(opts.ProfilePath, cfg.Ring); ok && p.Ring == cfg.Ring {
			fmt.Fprintf(out, "%sProfile found at %s%s\n%s\n", green, where, reset, p)
			fmt.Fprintf(out, "\n%s✅ Using cached calibration: %s-threshold %d%s\n",
				green, yellow, p.OptimalThreshold, reset)
			return apperrors.ExitSuccess
		}
	}

	began := time.Now()
	res, err := Calibrate(ctx, cfg, opts, log)
	if err != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", yellow, reset)
		return apperrors.HandleRunError(err, time.Since(began), out, ui.StatusColors{})
	}

	printCalibrationResults(out, res)
	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-threshold %d -parallel-threshold %d%s\n",
		green, yellow, res.BestThreshold, res.BestParallelThreshold, reset)

	if !opts.Save {
		return apperrors.ExitSuccess
	}
	if err := res.Profile().SaveProfile(opts.ProfilePath); err != nil {
		fmt.Fprintf(out, "%sCould not write the profile: %v%s\n", yellow, err, reset)
	} else {
		fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n", green, where, reset)
	}
	return apperrors.ExitSuccess
}

// LoadCachedCalibration applies a saved profile for cfg.Ring to cfg. Only
// thresholds still at their built-in defaults change, so explicit flags
// win. ok is false when no valid profile matches this host and ring.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (updated config.AppConfig, ok bool) {
	profile, loaded := LoadOrCreateProfile(profilePath, cfg.Ring)
	if !loaded || profile.Ring != cfg.Ring {
		return cfg, false
	}

	updated = cfg
	if updated.Threshold == polymul.DefaultThreshold {
		updated.Threshold = profile.OptimalThreshold
	}
	if updated.ParallelThreshold == polymul.DefaultParallelThreshold {
		updated.ParallelThreshold = profile.OptimalParallelThreshold
	}
	return updated, true
}

func profilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}
