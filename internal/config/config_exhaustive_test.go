package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/polymul/internal/errors"
)

// TestValidate mutates one field of a valid configuration at a time.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"timeout zero", func(c *AppConfig) { c.Timeout = 0 }, true},
		{"timeout negative", func(c *AppConfig) { c.Timeout = -time.Second }, true},
		{"timeout 1ns", func(c *AppConfig) { c.Timeout = time.Nanosecond }, false},
		{"timeout one day", func(c *AppConfig) { c.Timeout = 24 * time.Hour }, false},

		{"threshold 0", func(c *AppConfig) { c.Threshold = 0 }, true},
		{"threshold -4", func(c *AppConfig) { c.Threshold = -4 }, true},
		{"threshold 1", func(c *AppConfig) { c.Threshold = 1 }, false},
		{"threshold 3", func(c *AppConfig) { c.Threshold = 3 }, true},
		{"threshold 100", func(c *AppConfig) { c.Threshold = 100 }, true},
		{"threshold 2^20", func(c *AppConfig) { c.Threshold = 1 << 20 }, false},

		{"thresholds empty", func(c *AppConfig) { c.Thresholds = nil }, false},
		{"thresholds 2,6,32", func(c *AppConfig) { c.Thresholds = []int{2, 6, 32} }, true},
		{"thresholds 0", func(c *AppConfig) { c.Thresholds = []int{0} }, true},

		{"range single", func(c *AppConfig) { c.MinLog, c.MaxLog = 3, 3 }, false},
		{"range inverted", func(c *AppConfig) { c.MinLog, c.MaxLog = 5, 4 }, true},
		{"range negative", func(c *AppConfig) { c.MinLog = -1 }, true},
		{"range too large", func(c *AppConfig) { c.MaxLog = 25 }, true},
		{"sizes explicit", func(c *AppConfig) { c.Sizes = []int{1, 3, 1000} }, false},
		{"sizes zero", func(c *AppConfig) { c.Sizes = []int{4, 0} }, true},

		{"ring float64", func(c *AppConfig) { c.Ring = "float64" }, false},
		{"ring bn254", func(c *AppConfig) { c.Ring = "bn254" }, false},
		{"ring bls12-377", func(c *AppConfig) { c.Ring = "bls12-377" }, false},
		{"ring uint256", func(c *AppConfig) { c.Ring = "uint256" }, false},
		{"ring zmod 97", func(c *AppConfig) { c.Ring, c.Modulus = "zmod", 97 }, false},
		{"ring zmod 0", func(c *AppConfig) { c.Ring, c.Modulus = "zmod", 0 }, true},
		{"ring zmod 1", func(c *AppConfig) { c.Ring, c.Modulus = "zmod", 1 }, true},
		{"ring unknown", func(c *AppConfig) { c.Ring = "gaussian" }, true},
		{"ring empty", func(c *AppConfig) { c.Ring = "" }, true},

		{"repeat 0", func(c *AppConfig) { c.Repeat = 0 }, true},
		{"workers 0", func(c *AppConfig) { c.Workers = 0 }, true},
		{"parallel threshold -1", func(c *AppConfig) { c.ParallelThreshold = -1 }, true},
		{"format xml", func(c *AppConfig) { c.Format = "xml" }, true},
		{"max terms 0", func(c *AppConfig) { c.MaxTerms = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("want ConfigError, got %v", err)
			}
		})
	}
}

// TestParseConfigAllFlags sets every flag at once.
func TestParseConfigAllFlags(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	args := []string{
		"-min-log", "2",
		"-max-log", "6",
		"-thresholds", "8",
		"-threshold", "4",
		"-parallel-threshold", "256",
		"-ring", "zmod",
		"-modulus", "65537",
		"-seed", "99",
		"-repeat", "2",
		"-workers", "2",
		"-timeout", "30s",
		"-format", "JSON",
		"-output", "report.json",
		"-chart", "chart.html",
		"-demo",
		"-calibrate",
		"-calibration-profile", "/tmp/profile.json",
		"-max-terms", "128",
		"-no-color",
		"-log-level", "warn",
	}

	cfg, err := ParseConfig("test", args, &buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v (%s)", err, buf.String())
	}

	if cfg.MinLog != 2 || cfg.MaxLog != 6 {
		t.Errorf("Range: got %d..%d", cfg.MinLog, cfg.MaxLog)
	}
	if len(cfg.Thresholds) != 1 || cfg.Thresholds[0] != 8 {
		t.Errorf("Thresholds: got %v", cfg.Thresholds)
	}
	if cfg.Threshold != 4 || cfg.ParallelThreshold != 256 {
		t.Errorf("Threshold: got %d/%d", cfg.Threshold, cfg.ParallelThreshold)
	}
	if cfg.Ring != "zmod" || cfg.Modulus != 65537 {
		t.Errorf("Ring: got %s %d", cfg.Ring, cfg.Modulus)
	}
	if cfg.Seed != 99 || cfg.Repeat != 2 || cfg.Workers != 2 {
		t.Errorf("Seed/Repeat/Workers: got %d %d %d", cfg.Seed, cfg.Repeat, cfg.Workers)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout: got %v", cfg.Timeout)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("Format should be lower-cased, got %s", cfg.Format)
	}
	if cfg.OutputFile != "report.json" || cfg.ChartFile != "chart.html" {
		t.Errorf("Files: got %s %s", cfg.OutputFile, cfg.ChartFile)
	}
	if !cfg.Demo || !cfg.Calibrate || cfg.CalibrationProfile != "/tmp/profile.json" {
		t.Errorf("Modes: got demo=%v calibrate=%v profile=%s", cfg.Demo, cfg.Calibrate, cfg.CalibrationProfile)
	}
	if cfg.MaxTerms != 128 || !cfg.NoColor || cfg.LogLevel != "warn" {
		t.Errorf("Misc: got %d %v %s", cfg.MaxTerms, cfg.NoColor, cfg.LogLevel)
	}
}

// TestParseConfigOutputShorthand tests that -o is an alias of -output.
func TestParseConfigOutputShorthand(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("test", []string{"-o", "short.csv"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.OutputFile != "short.csv" {
		t.Errorf("OutputFile: expected short.csv, got %s", cfg.OutputFile)
	}
}

// TestParseConfigValidationErrors tests that invalid values are rejected
// and reported together with the usage text.
func TestParseConfigValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{"BadThreshold", []string{"-threshold", "3"}},
		{"BadThresholds", []string{"-thresholds", "2,5"}},
		{"BadRing", []string{"-ring", "octonion"}},
		{"BadModulus", []string{"-ring", "zmod", "-modulus", "1"}},
		{"BadFormat", []string{"-format", "yaml"}},
		{"BadRange", []string{"-min-log", "8", "-max-log", "4"}},
		{"ZeroTimeout", []string{"-timeout", "0s"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := ParseConfig("test", tc.args, &buf)
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected a wrapped ConfigError, got %v", err)
			}
			if !strings.Contains(buf.String(), "Configuration error") {
				t.Errorf("Expected the error to be printed, got %q", buf.String())
			}
		})
	}
}

// TestParseConfigHelpFlag tests that -h/-help returns an error and prints
// the usage text.
func TestParseConfigHelpFlag(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"-h", "-help", "--help"} {
		t.Run(flag, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := ParseConfig("test", []string{flag}, &buf)
			if err == nil {
				t.Error("Expected error for help flag")
			}
			out := buf.String()
			for _, want := range []string{"Polynomial Multiplication Benchmark", "-threshold", "-ring", "Modes:"} {
				if !strings.Contains(out, want) {
					t.Errorf("usage output missing %q", want)
				}
			}
		})
	}
}

func TestParseConfigBoundaryValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"ParallelThresholdZero", []string{"-parallel-threshold", "0"}, false},
		{"ThresholdOne", []string{"-threshold", "1"}, false},
		{"ThresholdZero", []string{"-threshold", "0"}, true},
		{"SingleCoefficient", []string{"-sizes", "1"}, false},
		{"MinLogZero", []string{"-min-log", "0", "-max-log", "0"}, false},
		{"TimeoutMinimum", []string{"-timeout", "1ns"}, false},
		{"RepeatZero", []string{"-repeat", "0"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if _, err := ParseConfig("test", tc.args, &buf); (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
