// Package processtest provides an in-memory process.Spawner.
package processtest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"syscall"

	"github.com/solixos/solixsh/core/process"
)

// Program simulates an executable.
type Program func(spec process.Spec) process.Outcome

// Spawner runs Programs registered by path in goroutines.
type Spawner struct {
	mu       sync.Mutex
	programs map[string]Program
	started  []process.Spec
	nextPid  int
}

var _ process.Spawner = (*Spawner)(nil)

// New creates a Spawner without programs.
func New() *Spawner {
	return &Spawner{
		programs: make(map[string]Program),
		nextPid:  1000,
	}
}

// Handle registers prog at path.
func (s *Spawner) Handle(path string, prog Program) *Spawner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[path] = prog
	return s
}

// Started returns the specs of every started process, in order.
func (s *Spawner) Started() []process.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]process.Spec(nil), s.started...)
}

// Start implements process.Spawner.Start.
func (s *Spawner) Start(_ context.Context, spec process.Spec) (process.Process, error) {
	s.mu.Lock()
	prog, ok := s.programs[spec.Path]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: fork/exec %s: %w", process.ErrCouldNotStart, spec.Path, syscall.ENOENT)
	}
	s.started = append(s.started, spec)
	s.nextPid++
	p := &fakeProcess{pid: s.nextPid, done: make(chan struct{})}
	s.mu.Unlock()

	go func() {
		defer close(p.done)
		p.outcome = prog(spec)
	}()
	return p, nil
}

type fakeProcess struct {
	pid     int
	done    chan struct{}
	outcome process.Outcome
}

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Wait() (process.Outcome, error) {
	<-p.done
	return p.outcome, nil
}

// Exit returns a program that exits with code.
func Exit(code int) Program {
	return func(process.Spec) process.Outcome {
		return process.Exited(code)
	}
}

// Signaled returns a program terminated by sig.
func Signaled(sig syscall.Signal) Program {
	return func(process.Spec) process.Outcome {
		return process.Killed(sig)
	}
}

// Echo prints its arguments like echo(1).
func Echo(spec process.Spec) process.Outcome {
	fmt.Fprintln(writerOrDiscard(spec.Stdout), strings.Join(spec.Argv[1:], " "))
	return process.Exited(0)
}

// Printf writes its first argument verbatim.
func Printf(spec process.Spec) process.Outcome {
	if len(spec.Argv) > 1 {
		fmt.Fprint(writerOrDiscard(spec.Stdout), spec.Argv[1])
	}
	return process.Exited(0)
}

// Cat copies stdin to stdout.
func Cat(spec process.Spec) process.Outcome {
	if spec.Stdin == nil {
		return process.Exited(0)
	}
	if _, err := io.Copy(writerOrDiscard(spec.Stdout), spec.Stdin); err != nil {
		return process.Exited(1)
	}
	return process.Exited(0)
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
