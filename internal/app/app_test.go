package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/polymul/internal/calibration"
	"github.com/agbru/polymul/internal/config"
	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ring"
	"github.com/agbru/polymul/internal/testutil"
)

// newTestApp parses args the way main does and silences logging.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	var errBuf bytes.Buffer
	app, err := New(append([]string{"polymul", "-no-color"}, args...), &errBuf)
	if err != nil {
		t.Fatalf("New(%v) failed: %v\n%s", args, err, errBuf.String())
	}
	app.Logger = logging.NewNopLogger()
	return app
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, "-ring", "bn254", "-sizes", "8,16")
		if app.Config.Ring != ring.NameBN254 {
			t.Errorf("Ring = %q, want %q", app.Config.Ring, ring.NameBN254)
		}
		if got := app.Config.SweepSizes(); len(got) != 2 {
			t.Errorf("SweepSizes = %v", got)
		}
		if app.Logger == nil {
			t.Error("Logger should not be nil")
		}
	})

	t.Run("Invalid flag returns error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		if _, err := New([]string{"polymul", "-invalid-flag"}, &errBuf); err == nil {
			t.Fatal("expected error for unknown flag")
		}
	})

	t.Run("Invalid configuration returns ConfigError", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"polymul", "-threshold", "3"}, &errBuf)
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
			t.Errorf("ExitCode = %d, want %d", apperrors.ExitCode(err), apperrors.ExitErrorConfig)
		}
	})

	t.Run("Help flag", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"polymul", "-h"}, &errBuf)
		if !IsHelpError(err) {
			t.Errorf("expected help error, got %v", err)
		}
	})

	t.Run("Empty args use defaults", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		app, err := New(nil, &errBuf)
		if err != nil {
			t.Fatalf("New(nil) failed: %v", err)
		}
		if app.Config.Threshold != polymul.DefaultThreshold {
			t.Errorf("sweep thresholds must not be tuned implicitly, got %d", app.Config.Threshold)
		}
	})
}

// TestNewServerModeThresholds checks the server starts from calibrated or
// estimated thresholds while explicit flags win.
func TestNewServerModeThresholds(t *testing.T) {
	t.Parallel()

	t.Run("Estimates without profile", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "none.json")
		app := newTestApp(t, "-server", "-calibration-profile", missing)
		if app.Config.Threshold != calibration.EstimateOptimalThreshold(ring.NameInt64) {
			t.Errorf("Threshold = %d", app.Config.Threshold)
		}
		if app.Config.ParallelThreshold != calibration.EstimateOptimalParallelThreshold() {
			t.Errorf("ParallelThreshold = %d", app.Config.ParallelThreshold)
		}
	})

	t.Run("Explicit flags kept", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "none.json")
		app := newTestApp(t, "-server", "-calibration-profile", missing, "-threshold", "4", "-parallel-threshold", "0")
		if app.Config.Threshold != 4 || app.Config.ParallelThreshold != 0 {
			t.Errorf("thresholds = %d/%d, want 4/0", app.Config.Threshold, app.Config.ParallelThreshold)
		}
	})

	t.Run("Cached profile", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profile.json")
		profile := calibration.NewProfile(ring.NameInt64)
		profile.OptimalThreshold = 16
		profile.OptimalParallelThreshold = 256
		if err := profile.SaveProfile(path); err != nil {
			t.Fatalf("SaveProfile: %v", err)
		}

		app := newTestApp(t, "-server", "-calibration-profile", path)
		if app.Config.Threshold != 16 || app.Config.ParallelThreshold != 256 {
			t.Errorf("thresholds = %d/%d, want 16/256", app.Config.Threshold, app.Config.ParallelThreshold)
		}
	})
}

func TestApplyAdaptiveThresholds(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{
		Ring:              ring.NameBLS12377,
		Threshold:         polymul.DefaultThreshold,
		ParallelThreshold: polymul.DefaultParallelThreshold,
	}
	got := applyAdaptiveThresholds(cfg)
	if got.Threshold != calibration.EstimateOptimalThreshold(ring.NameBLS12377) {
		t.Errorf("Threshold = %d", got.Threshold)
	}
	if got.ParallelThreshold != calibration.EstimateOptimalParallelThreshold() {
		t.Errorf("ParallelThreshold = %d", got.ParallelThreshold)
	}

	cfg.Threshold, cfg.ParallelThreshold = 64, 4096
	if got := applyAdaptiveThresholds(cfg); got.Threshold != 64 || got.ParallelThreshold != 4096 {
		t.Errorf("overrides lost: %+v", got)
	}
}

// TestRunSweep runs small sweeps end to end.
func TestRunSweep(t *testing.T) {
	t.Parallel()

	t.Run("Quiet CSV", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, "-sizes", "4,8", "-repeat", "1", "-workers", "2", "-q")
		var out bytes.Buffer
		if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
			t.Fatalf("exit code %d, output:\n%s", code, out.String())
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and two rows, got:\n%s", out.String())
		}
		if !strings.HasPrefix(lines[0], "size,schoolbook_us,karatsuba_us") {
			t.Errorf("header = %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "4,") || !strings.HasPrefix(lines[2], "8,") {
			t.Errorf("rows = %q", lines[1:])
		}
	})

	t.Run("JSON with files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		report := filepath.Join(dir, "out", "report.json")
		chart := filepath.Join(dir, "chart.html")
		app := newTestApp(t, "-ring", "zmod", "-modulus", "17", "-sizes", "16", "-repeat", "1",
			"-format", config.FormatJSON, "-output", report, "-chart", chart)

		var out bytes.Buffer
		if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
			t.Fatalf("exit code %d, output:\n%s", code, out.String())
		}
		text := testutil.StripAnsiCodes(out.String())
		for _, want := range []string{"Ring zmod", "Report saved to", "Chart saved to", "Sweep completed"} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}

		data, err := os.ReadFile(report)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if !strings.Contains(string(data), `"ring": "zmod"`) {
			t.Errorf("unexpected report:\n%s", data)
		}
		html, err := os.ReadFile(chart)
		if err != nil {
			t.Fatalf("chart not written: %v", err)
		}
		if !strings.Contains(string(html), "<html>") {
			t.Error("chart is not an HTML document")
		}
	})

	t.Run("Unwritable report", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, "-sizes", "4", "-repeat", "1", "-q", "-output", t.TempDir())
		var out bytes.Buffer
		if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorGeneric {
			t.Errorf("exit code %d, want %d", code, apperrors.ExitErrorGeneric)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, "-min-log", "10", "-max-log", "14", "-timeout", "1ns", "-q")
		var out bytes.Buffer
		if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
			t.Errorf("exit code %d, want %d\n%s", code, apperrors.ExitErrorTimeout, out.String())
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, "-sizes", "512,1024", "-q")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out bytes.Buffer
		if code := app.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
			t.Errorf("exit code %d, want %d", code, apperrors.ExitErrorCanceled)
		}
	})
}

// TestRunDemo checks the demo mode output and exit code.
func TestRunDemo(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, "-demo", "-log-level", "verbose")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "= 2x^3 + 7x^2 + 10x + 8") {
		t.Errorf("demo output missing product:\n%s", out.String())
	}
}

// TestRunCalibration checks calibration mode is wired and honors cancellation.
func TestRunCalibration(t *testing.T) {
	t.Parallel()
	profile := filepath.Join(t.TempDir(), "profile.json")
	app := newTestApp(t, "-calibrate", "-calibration-profile", profile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	code := app.Run(ctx, &out)
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(out.String(), "Calibration Mode") {
		t.Errorf("missing calibration banner:\n%s", out.String())
	}
	if calibration.ProfileExists(profile) {
		t.Error("an interrupted calibration must not save a profile")
	}
}

// TestRunServer starts the API on an ephemeral port and stops it through
// the context.
func TestRunServer(t *testing.T) {
	app := newTestApp(t, "-server", "-port", "0", "-calibration-profile", filepath.Join(t.TempDir(), "p.json"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- app.Run(ctx, &bytes.Buffer{}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		if code != apperrors.ExitSuccess {
			t.Errorf("exit code %d, want %d", code, apperrors.ExitSuccess)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestIsHelpError(t *testing.T) {
	t.Parallel()
	if IsHelpError(errors.New("other")) {
		t.Error("plain error is not a help error")
	}
	if IsHelpError(nil) {
		t.Error("nil is not a help error")
	}
}

func TestRunContext(t *testing.T) {
	t.Parallel()

	ctx, stop := runContext(context.Background(), time.Hour)
	if _, ok := ctx.Deadline(); !ok {
		t.Error("a positive timeout sets a deadline")
	}
	stop()
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("stop should cancel the run, got %v", ctx.Err())
	}

	ctx, stop = runContext(context.Background(), 0)
	defer stop()
	if _, ok := ctx.Deadline(); ok {
		t.Error("a zero timeout must not set a deadline")
	}

	ctx, stop = runContext(context.Background(), time.Millisecond)
	defer stop()
	<-ctx.Done()
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("expired run should report DeadlineExceeded, got %v", ctx.Err())
	}
}
