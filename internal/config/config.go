// Package config provides the configuration management for the polymul
// application. It defines the configuration structure, parses command-line
// flags, applies environment overrides and validates the result.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ring"
)

const (
	// EnvPrefix is the prefix for all environment variables used by polymul.
	EnvPrefix = "POLYMUL_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultMinLog and DefaultMaxLog bound the default size sweep:
	// 2^4 .. 2^11 coefficients.
	DefaultMinLog = 4
	DefaultMaxLog = 11
	// DefaultThresholds are the extra Karatsuba base-case variants timed by
	// the sweep next to the plain threshold-1 run.
	DefaultThresholds = "2,32"
	// DefaultRing is the coefficient ring used by the sweep.
	DefaultRing = ring.NameInt64
	// DefaultSeed seeds operand generation so sweeps are reproducible.
	DefaultSeed uint64 = 1
	// DefaultRepeat is the number of timed repetitions per measurement.
	DefaultRepeat = 3
	// DefaultTimeout is the default sweep timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultFormat is the default report format.
	DefaultFormat = FormatCSV
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultMaxTerms caps operand length accepted by the HTTP API.
	DefaultMaxTerms = 1 << 16
	// DefaultLogLevel is the default zerolog level.
	DefaultLogLevel = "info"
)

// Report formats.
const (
	FormatCSV   = "csv"
	FormatTable = "table"
	FormatJSON  = "json"
)

// Formats lists the accepted report formats.
func Formats() []string { return []string{FormatCSV, FormatTable, FormatJSON} }

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Sizes lists explicit operand lengths to benchmark. When empty the sweep
	// covers the powers of two 2^MinLog .. 2^MaxLog.
	Sizes []int
	// MinLog and MaxLog bound the default power-of-two sweep.
	MinLog int
	MaxLog int
	// Thresholds are the extra Karatsuba base-case thresholds timed per size.
	Thresholds []int
	// Threshold is the base case used by the plain Karatsuba column, the
	// demo and the server's default.
	Threshold int
	// ParallelThreshold enables the parallel multiplier above this length.
	ParallelThreshold int
	// Ring names the coefficient ring.
	Ring string
	// Modulus is q for the "zmod" ring.
	Modulus uint64
	// Seed seeds the operand generator.
	Seed uint64
	// Repeat is the number of timed repetitions per measurement.
	Repeat int
	// Workers bounds the number of sizes benchmarked concurrently.
	Workers int
	// Timeout sets the maximum duration of a sweep or calibration.
	Timeout time.Duration
	// Format selects the report rendering: csv, table or json.
	Format string
	// OutputFile, if set, receives a copy of the report.
	OutputFile string
	// ChartFile, if set, receives an HTML line chart of the timings.
	ChartFile string
	// Demo prints the sample products instead of running a sweep.
	Demo bool
	// Calibrate runs the threshold calibration.
	Calibrate bool
	// CalibrationProfile is the path of the calibration profile.
	// If empty, uses the default path (~/.polymul_calibration.json).
	CalibrationProfile string
	// ServerMode starts the HTTP API.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// MaxTerms caps operand length accepted by the HTTP API.
	MaxTerms int
	// Quiet suppresses the banner and progress spinner.
	Quiet bool
	// NoColor disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// LogLevel sets the zerolog level (debug, info, warn, error).
	LogLevel string
}

// SweepSizes returns the operand lengths the sweep visits, in ascending order.
func (c AppConfig) SweepSizes() []int {
	if len(c.Sizes) > 0 {
		sizes := slices.Clone(c.Sizes)
		slices.Sort(sizes)
		return slices.Compact(sizes)
	}
	sizes := make([]int, 0, c.MaxLog-c.MinLog+1)
	for k := c.MinLog; k <= c.MaxLog; k++ {
		sizes = append(sizes, 1<<k)
	}
	return sizes
}

// ExtraThresholds returns the distinct extra thresholds in ascending order.
func (c AppConfig) ExtraThresholds() []int {
	thresholds := slices.Clone(c.Thresholds)
	slices.Sort(thresholds)
	return slices.Compact(thresholds)
}

// KaratsubaOptions converts the configuration into multiplier options.
func (c AppConfig) KaratsubaOptions() polymul.Options {
	return polymul.Options{
		Threshold:         c.Threshold,
		ParallelThreshold: c.ParallelThreshold,
	}
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Repeat < 1 {
		return apperrors.NewConfigError("repeat must be at least 1: %d", c.Repeat)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1: %d", c.Workers)
	}
	if c.MinLog < 0 || c.MaxLog > 24 || c.MinLog > c.MaxLog {
		return apperrors.NewConfigError("invalid size range 2^%d..2^%d", c.MinLog, c.MaxLog)
	}
	for _, s := range c.Sizes {
		if s < 1 {
			return apperrors.NewConfigError("sizes must be at least 1: %d", s)
		}
	}
	if !poly.IsPowerOfTwo(c.Threshold) {
		return apperrors.NewConfigError("threshold must be a power of two: %d", c.Threshold)
	}
	for _, t := range c.Thresholds {
		if !poly.IsPowerOfTwo(t) {
			return apperrors.NewConfigError("thresholds must be powers of two: %d", t)
		}
	}
	if c.ParallelThreshold < 0 {
		return apperrors.NewConfigError("parallel threshold cannot be negative: %d", c.ParallelThreshold)
	}
	if !ring.IsKnown(c.Ring) {
		return apperrors.NewConfigError("unrecognized ring: '%s'. Valid rings are: [%s]", c.Ring, strings.Join(ring.Names(), ", "))
	}
	if c.Ring == ring.NameZMod {
		if _, err := ring.NewZMod(c.Modulus); err != nil {
			return apperrors.NewConfigError("%v: %d", err, c.Modulus)
		}
	}
	if !slices.Contains(Formats(), c.Format) {
		return apperrors.NewConfigError("unrecognized format: '%s'. Valid formats are: [%s]", c.Format, strings.Join(Formats(), ", "))
	}
	if c.MaxTerms < 1 {
		return apperrors.NewConfigError("max-terms must be at least 1: %d", c.MaxTerms)
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct, applies environment overrides for flags not given on the command
// line, then validates the result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{Thresholds: mustParseInts(DefaultThresholds)}
	fs.Var((*intList)(&config.Sizes), "sizes", "Comma-separated operand lengths to benchmark (overrides -min-log/-max-log).")
	fs.IntVar(&config.MinLog, "min-log", DefaultMinLog, "Smallest size of the sweep, as a power of two.")
	fs.IntVar(&config.MaxLog, "max-log", DefaultMaxLog, "Largest size of the sweep, as a power of two.")
	fs.Var((*intList)(&config.Thresholds), "thresholds", "Comma-separated extra Karatsuba base-case thresholds (powers of two).")
	fs.IntVar(&config.Threshold, "threshold", polymul.DefaultThreshold, "Karatsuba base-case threshold (power of two).")
	fs.IntVar(&config.ParallelThreshold, "parallel-threshold", polymul.DefaultParallelThreshold, "Operand length from which Karatsuba forks goroutines (0 to disable).")
	fs.StringVar(&config.Ring, "ring", DefaultRing, fmt.Sprintf("Coefficient ring, one of [%s].", strings.Join(ring.Names(), ", ")))
	fs.Uint64Var(&config.Modulus, "modulus", ring.DefaultModulus, "Modulus q of the zmod ring.")
	fs.Uint64Var(&config.Seed, "seed", DefaultSeed, "Seed for random operand generation.")
	fs.IntVar(&config.Repeat, "repeat", DefaultRepeat, "Timed repetitions per measurement.")
	fs.IntVar(&config.Workers, "workers", runtime.NumCPU(), "Sizes benchmarked concurrently.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.StringVar(&config.Format, "format", DefaultFormat, "Report format: csv, table or json.")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.StringVar(&config.ChartFile, "chart", "", "Write an HTML chart of the timings to this file.")
	fs.BoolVar(&config.Demo, "demo", false, "Print sample products computed by every multiplier.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Find the fastest Karatsuba threshold on this machine.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.polymul_calibration.json).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxTerms, "max-terms", DefaultMaxTerms, "Largest operand length accepted by the HTTP API.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - report only.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Ring = strings.ToLower(config.Ring)
	config.Format = strings.ToLower(config.Format)
	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return config, nil
}
