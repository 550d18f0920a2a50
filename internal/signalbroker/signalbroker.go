// Package signalbroker listens for OS termination signals and turns them into
// context cancellation. The first signal received aborts the run by cancelling
// the context; child processes are then signalled through their command
// contexts. A repeated signal of the same type stops the broker entirely,
// restoring the default signal disposition so a further signal terminates the
// process immediately.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cchexcode/bobr/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a channel that receives OS signals that should end the run.
// When no signals are given, the default termination set is used.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker listening", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}
