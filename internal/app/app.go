package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/polymul/internal/bench"
	"github.com/agbru/polymul/internal/calibration"
	"github.com/agbru/polymul/internal/cli"
	"github.com/agbru/polymul/internal/config"
	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/server"
	"github.com/agbru/polymul/internal/ui"
)

// Application is one invocation of polymul: a validated configuration and
// the writers diagnostics go to.
type Application struct {
	Config config.AppConfig
	// ErrWriter receives usage text, logs and fatal errors.
	ErrWriter io.Writer
	// Logger receives diagnostics. Defaults to a console logger on ErrWriter.
	Logger logging.Logger
}

// New parses args, as found in os.Args, into an Application. Parse and
// validation errors are returned as is; see IsHelpError for -help.
func New(args []string, errWriter io.Writer) (*Application, error) {
	name, rest := "polymul", []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}
	cfg, err := config.ParseConfig(name, rest, errWriter)
	if err != nil {
		return nil, err
	}

	// The server has no per-request threshold tuning of its own, so it
	// starts from the machine's calibrated values when they exist.
	if cfg.ServerMode {
		tuned, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile)
		if !loaded {
			tuned = applyAdaptiveThresholds(cfg)
		}
		cfg = tuned
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
		Logger:    logging.NewConsoleLogger(errWriter, "polymul", cfg.NoColor),
	}, nil
}

// applyAdaptiveThresholds replaces thresholds still at their static defaults
// with hardware-based estimates. Explicit flags are preserved.
func applyAdaptiveThresholds(cfg config.AppConfig) config.AppConfig {
	if cfg.Threshold == polymul.DefaultThreshold {
		cfg.Threshold = calibration.EstimateOptimalThreshold(cfg.Ring)
	}
	if cfg.ParallelThreshold == polymul.DefaultParallelThreshold {
		cfg.ParallelThreshold = calibration.EstimateOptimalParallelThreshold()
	}
	return cfg
}

// Run executes the selected mode, server first, then calibration, demo
// and finally the default sweep, writing results to out. It returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Logger == nil {
		a.Logger = logging.NewNopLogger()
	}
	if !logging.SetLevel(a.Config.LogLevel) {
		a.Logger.Warn("unknown log level, using info", logging.String("level", a.Config.LogLevel))
	}

	ui.InitTheme(a.Config.NoColor, out)

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.Demo:
		return a.runDemo(out)
	default:
		return a.runSweep(ctx, out)
	}
}

func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Config, server.WithLogger(a.Logger))
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := runContext(ctx, a.Config.Timeout)
	defer stop()
	return calibration.RunCalibration(ctx, a.Config, out, a.Logger)
}

// runDemo prints the worked examples over the configured ring.
func (a *Application) runDemo(out io.Writer) int {
	err := cli.RunDemo(out, a.Config.Ring, a.Config.Modulus, a.Config.Threshold)
	return apperrors.HandleRunError(err, 0, out, ui.StatusColors{})
}

// runSweep orchestrates the timing sweep: header, progress, report, optional
// report and chart files, then the summary.
func (a *Application) runSweep(ctx context.Context, out io.Writer) int {
	ctx, stop := runContext(ctx, a.Config.Timeout)
	defer stop()

	plan := bench.PlanFromConfig(a.Config)
	if !a.Config.Quiet {
		cli.PrintSweepHeader(out, plan, a.Config.Timeout)
	}

	var (
		wg           sync.WaitGroup
		progressChan chan cli.ProgressUpdate
		progress     bench.ProgressFunc
	)
	if !a.Config.Quiet {
		// One slot per size, so no update is ever dropped.
		progressChan = make(chan cli.ProgressUpdate, len(plan.Sizes))
		progress = cli.ProgressSender(progressChan)
		wg.Add(1)
		go cli.DisplayProgress(&wg, progressChan, len(plan.Sizes), out)
	}

	began := time.Now()
	report, err := bench.Run(ctx, plan, a.Logger, progress)
	if progressChan != nil {
		close(progressChan)
		wg.Wait()
	}
	if err != nil {
		return apperrors.HandleRunError(err, time.Since(began), out, ui.StatusColors{})
	}

	if !a.Config.Quiet {
		fmt.Fprintln(out)
	}
	if err := cli.WriteReport(out, report, a.Config.Format); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if code := a.saveArtifacts(report, out); code != apperrors.ExitSuccess {
		return code
	}

	if !a.Config.Quiet {
		cli.PrintSweepSummary(out, report)
	}
	return apperrors.ExitSuccess
}

// saveArtifacts writes the report and chart files requested on the command line.
func (a *Application) saveArtifacts(report bench.Report, out io.Writer) int {
	if a.Config.OutputFile != "" {
		if err := cli.SaveReport(a.Config.OutputFile, report, a.Config.Format); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			fmt.Fprintf(out, "%s✓ Report saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
		}
	}
	if a.Config.ChartFile != "" {
		if err := cli.SaveChart(a.Config.ChartFile, report); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving chart: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			fmt.Fprintf(out, "%s✓ Chart saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.ChartFile, ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// IsHelpError reports whether New failed only because -help was given,
// in which case the usage text has been printed and the exit is clean.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
