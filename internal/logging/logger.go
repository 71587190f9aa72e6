// Package logging is the structured logger shared by the benchmark sweep,
// the calibration runner and the HTTP server. Components depend on the
// Logger interface; zerolog backs it in production and a *log.Logger can
// stand in where plain text is wanted.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is implemented by ZerologAdapter and StdLoggerAdapter.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	// Error logs msg at error level with err attached.
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	// Printf and Println log unstructured text at info level, for code
	// written against *log.Logger.
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is one key/value pair attached to an entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                 { return Field{key, value} }
func Int(key string, value int) Field                { return Field{key, value} }
func Bool(key string, value bool) Field              { return Field{key, value} }
func Duration(key string, value time.Duration) Field { return Field{key, value} }

// SetLevel sets the process-wide minimum level from a name such as "debug"
// or "WARN". An unknown name selects info and returns false.
func SetLevel(name string) bool {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	ok := err == nil && lvl != zerolog.NoLevel
	if !ok {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return ok
}

// ZerologAdapter is a Logger over a zerolog.Logger.
type ZerologAdapter struct {
	zl zerolog.Logger
}

var _ Logger = (*ZerologAdapter)(nil)

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(zl zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{zl: zl}
}

// NewLogger writes timestamped JSON lines to w, each tagged with component.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(w).With().Timestamp().Str("component", component).Logger())
}

// NewConsoleLogger writes human-readable lines to w, for interactive runs.
func NewConsoleLogger(w io.Writer, component string, noColor bool) *ZerologAdapter {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.TimeOnly}
	return NewZerologAdapter(zerolog.New(cw).With().Timestamp().Str("component", component).Logger())
}

// NewNopLogger discards every entry.
func NewNopLogger() *ZerologAdapter {
	return NewZerologAdapter(zerolog.Nop())
}

func (z *ZerologAdapter) emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e.Str(f.Key, v)
		case int:
			e.Int(f.Key, v)
		case bool:
			e.Bool(f.Key, v)
		case time.Duration:
			e.Dur(f.Key, v)
		default:
			e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

func (z *ZerologAdapter) Info(msg string, fields ...Field)  { z.emit(z.zl.Info(), msg, fields) }
func (z *ZerologAdapter) Warn(msg string, fields ...Field)  { z.emit(z.zl.Warn(), msg, fields) }
func (z *ZerologAdapter) Debug(msg string, fields ...Field) { z.emit(z.zl.Debug(), msg, fields) }

func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	z.emit(z.zl.Error().Err(err), msg, fields)
}

func (z *ZerologAdapter) Printf(format string, args ...any) { z.zl.Info().Msgf(format, args...) }

func (z *ZerologAdapter) Println(args ...any) {
	z.zl.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// StdLoggerAdapter is a Logger over a standard *log.Logger. Entries are
// rendered as "[LEVEL] msg key=value ...".
type StdLoggerAdapter struct {
	l *stdlog.Logger
}

var _ Logger = (*StdLoggerAdapter)(nil)

// NewStdLoggerAdapter wraps l.
func NewStdLoggerAdapter(l *stdlog.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{l: l}
}

func (s *StdLoggerAdapter) line(level, msg string, fields []Field) {
	var b strings.Builder
	b.WriteString("[" + level + "] " + msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	s.l.Print(b.String())
}

func (s *StdLoggerAdapter) Info(msg string, fields ...Field)  { s.line("INFO", msg, fields) }
func (s *StdLoggerAdapter) Warn(msg string, fields ...Field)  { s.line("WARN", msg, fields) }
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) { s.line("DEBUG", msg, fields) }

func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.line("ERROR", fmt.Sprintf("%s: %v", msg, err), fields)
}

func (s *StdLoggerAdapter) Printf(format string, args ...any) { s.l.Printf(format, args...) }
func (s *StdLoggerAdapter) Println(args ...any)               { s.l.Println(args...) }
