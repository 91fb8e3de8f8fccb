package core

import (
	"context"
	"os"
	"sync"
	"syscall"

	"github.com/solixos/solixsh/core/ctxlog"
	"github.com/solixos/solixsh/core/signalbroker"
)

// watchSignals handles SIGINT and SIGTERM until the returned function is
// called. Without an injected channel the OS signals are used and SIGQUIT is
// ignored.
func (s *Shell) watchSignals(ctx context.Context) (stop func()) {
	sigCh := s.signals
	owned := sigCh == nil
	if owned {
		signalbroker.IgnoreQuit()
		sigCh = signalbroker.New(ctx)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case sig := <-sigCh:
				s.handleSignal(ctx, sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		if owned {
			signalbroker.Stop(sigCh)
		}
	}
}

func (s *Shell) handleSignal(ctx context.Context, sig os.Signal) {
	ctxlog.Info(ctx, "received signal", "signal", sig.String())

	switch sig {
	case syscall.SIGINT:
		s.interrupted.Store(true)
		if s.atPrompt.Load() {
			s.Reader.Interrupt()
		} else {
			s.cancelForeground()
		}
	case syscall.SIGTERM:
		s.terminating.Store(true)
		if err := s.Reader.Close(); err != nil {
			ctxlog.Warn(ctx, "couldn't close reader", "error", err)
		}
	}
}
