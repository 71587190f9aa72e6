package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes HandleRunError decorates status
// lines with. The ui package implements it; keeping it an interface here
// avoids an import cycle.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider returns empty codes.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// ExitCode classifies err into a process exit status. Context errors are
// checked first so a sweep canceled mid-verification still reports 130.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ExitErrorCanceled
	}
	var mismatch MismatchError
	if errors.As(err, &mismatch) {
		return ExitErrorMismatch
	}
	var cfg ConfigError
	if errors.As(err, &cfg) {
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// HandleRunError writes a one-line status for a failed run to out and
// returns its exit code. A nil err writes nothing. duration, when positive,
// is appended to timeout and cancellation messages. colors may be nil.
func HandleRunError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	code := ExitCode(err)
	if code == ExitSuccess {
		return code
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	var elapsed string
	if duration > 0 {
		elapsed = " after " + colors.Yellow() + duration.String() + colors.Reset()
	}

	var line string
	switch code {
	case ExitErrorTimeout:
		line = "Status: Failure (Timeout). The execution limit was reached" + elapsed + "."
	case ExitErrorCanceled:
		line = colors.Yellow() + "Status: Canceled" + elapsed + "." + colors.Reset()
	case ExitErrorMismatch:
		line = fmt.Sprintf("%sStatus: Failure (Mismatch). %v%s", colors.Red(), err, colors.Reset())
	case ExitErrorConfig:
		line = fmt.Sprintf("Status: Failure (Configuration). %v", err)
	default:
		line = fmt.Sprintf("Status: Failure. An unexpected error occurred: %v", err)
	}
	fmt.Fprintln(out, line)
	return code
}
