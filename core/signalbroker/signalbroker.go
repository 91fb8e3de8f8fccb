// Package signalbroker provides the interpreter's signal channel.
//
// By default it listens for SIGINT and SIGTERM. SIGQUIT is ignored at the
// interpreter level; children started after Ignore inherit that disposition
// while SIGINT reverts to its default in every child because it is only
// caught, never ignored.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/solixos/solixsh/core/ctxlog"
)

var shellSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// New creates a channel that receives the given signals, or SIGINT and
// SIGTERM if none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = shellSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop stops delivery to a channel created by New.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}

// IgnoreQuit makes the interpreter immune to SIGQUIT.
func IgnoreQuit() {
	signal.Ignore(syscall.SIGQUIT)
}
