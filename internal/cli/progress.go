// Package cli renders the benchmark sweep for the terminal: the progress
// line shown while sizes are measured, the CSV, table and JSON reports, the
// HTML timing chart and the sample-product demo.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/polymul/internal/bench"
)

const (
	refreshInterval = 150 * time.Millisecond
	barWidth        = 30
	// etaCap bounds the estimate while the observed rate is still tiny.
	etaCap = 24 * time.Hour
)

// FormatDuration renders d at a precision suited to its magnitude:
// whole microseconds below a millisecond, whole milliseconds below a second
// and time.Duration's own form above.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(time.Millisecond).String()
	}
}

// statusLine is the animated line DisplayProgress drives. The spinner
// package implements it in production; tests substitute a recorder.
type statusLine interface {
	Start()
	Stop()
	SetSuffix(s string)
}

type spinnerLine struct{ *spinner.Spinner }

// SetSuffix takes the spinner's lock since its goroutine reads Suffix.
func (l spinnerLine) SetSuffix(s string) {
	l.Lock()
	l.Suffix = s
	l.Unlock()
}

var newStatusLine = func(out io.Writer) statusLine {
	return spinnerLine{spinner.New(spinner.CharSets[14], refreshInterval, spinner.WithWriter(out))}
}

// renderBar draws frac (clamped to [0, 1]) as a bar of width cells.
func renderBar(frac float64, width int) string {
	filled := int(clamp01(frac) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }

// etaEstimator predicts the remaining time of a sweep from the rate at which
// the completed fraction grows. The rate is exponentially smoothed because
// large sizes cost far more than small ones.
type etaEstimator struct {
	now      func() time.Time
	start    time.Time
	frac     float64
	rate     float64 // fraction per second, 0 until known
	lastAt   time.Time
	lastFrac float64
}

func newETAEstimator(now func() time.Time) *etaEstimator {
	t := now()
	return &etaEstimator{now: now, start: t, lastAt: t}
}

// observe records the completed fraction and returns the new estimate.
func (e *etaEstimator) observe(frac float64) time.Duration {
	e.frac = clamp01(frac)
	t := e.now()
	since := t.Sub(e.lastAt).Seconds()
	if delta := e.frac - e.lastFrac; since > 0 && delta > 0 {
		if e.rate == 0 {
			e.rate = e.frac / t.Sub(e.start).Seconds()
		} else {
			e.rate = 0.7*e.rate + 0.3*delta/since
		}
	}
	e.lastAt, e.lastFrac = t, e.frac
	return e.remaining()
}

// remaining is 0 when unknown or when the sweep is complete.
func (e *etaEstimator) remaining() time.Duration {
	if e.rate <= 0 || e.frac >= 1 {
		return 0
	}
	secs := (1 - e.frac) / e.rate
	if secs >= etaCap.Seconds() {
		return etaCap
	}
	return time.Duration(secs * float64(time.Second))
}

// formatETA renders an estimate as "45s", "2m30s" or "1h15m".
func formatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "estimating"
	case eta < time.Second:
		return "<1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	}
	big, small, bigUnit, smallUnit := int(eta.Minutes()), int(eta.Seconds())%60, "m", "s"
	if eta >= time.Hour {
		big, small, bigUnit, smallUnit = int(eta.Hours()), int(eta.Minutes())%60, "h", "m"
	}
	if small == 0 {
		return fmt.Sprintf("%d%s", big, bigUnit)
	}
	return fmt.Sprintf("%d%s%d%s", big, bigUnit, small, smallUnit)
}

// formatProgress renders e.g. " 50.0% [███░░░] ETA 1m30s".
func formatProgress(frac float64, eta time.Duration, width int) string {
	tail := "ETA " + formatETA(eta)
	if frac >= 1 {
		tail = "done"
	}
	return fmt.Sprintf("%5.1f%% [%s] %s", clamp01(frac)*100, renderBar(frac, width), tail)
}

// ProgressUpdate reports that Done of Total sweep sizes have completed.
type ProgressUpdate struct {
	Done  int
	Total int
}

// ProgressSender adapts ch to a bench.ProgressFunc. Sends never block; an
// update the display has not consumed yet is superseded by the next one.
func ProgressSender(ch chan<- ProgressUpdate) bench.ProgressFunc {
	return func(done, total int) {
		select {
		case ch <- ProgressUpdate{Done: done, Total: total}:
		default:
		}
	}
}

// DisplayProgress animates a status line on out until updates is closed,
// then prints a final line. It calls wg.Done on return and is meant to run
// in its own goroutine. With total <= 0 it only drains updates.
func DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, total int, out io.Writer) {
	defer wg.Done()
	if total <= 0 {
		for range updates {
		}
		return
	}

	est := newETAEstimator(time.Now)
	line := newStatusLine(out)
	line.Start()

	tick := time.NewTicker(refreshInterval)
	defer tick.Stop()

	done := 0
	label := func() string { return fmt.Sprintf("Sizes %d/%d", done, total) }
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				line.Stop()
				fmt.Fprintf(out, "%s: %s\n", label(), formatProgress(est.frac, 0, barWidth))
				return
			}
			done = max(done, u.Done)
			est.observe(float64(done) / float64(total))
		case <-tick.C:
			line.SetSuffix(" " + label() + ": " + formatProgress(est.frac, est.remaining(), barWidth))
		}
	}
}
