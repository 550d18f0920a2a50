package signalbroker

import (
	"context"
	"os"
	"os/signal"

	"github.com/cchexcode/bobr/internal/ctxlog"
)

// Watch monitors the signal channel. The first signal of any type cancels the
// context, which aborts the run and signals live child processes. A second
// signal of the same type stops the watch and restores default signal
// handling, so a further signal kills the process outright.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "repeated signal, restoring default handling", "signal", sig.String())
			signal.Stop(sigCh)

			return
		}

		seen[sig] = struct{}{}

		ctxlog.Info(ctx, "signal received, aborting run", "signal", sig.String())
		cancel()
	}
}
