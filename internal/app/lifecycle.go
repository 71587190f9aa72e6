package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// runContext derives the context of one run from ctx: it ends after timeout
// (never, if timeout is not positive) or on the first SIGINT or SIGTERM.
// The returned stop releases both and restores default signal handling.
func runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancel()
	}
}
