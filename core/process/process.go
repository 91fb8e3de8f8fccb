// Package process starts external programs and reports how they ended.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"github.com/solixos/solixsh/core/ctxlog"
)

// ErrCouldNotStart is returned when the program could not be started.
var ErrCouldNotStart = errors.New("could not start process")

// Spec describes a program to start. Stdin, Stdout and Stderr that are
// *os.File values are handed to the child directly.
type Spec struct {
	// Path is the resolved executable.
	Path string
	// Argv holds the arguments, including the command name as Argv[0].
	Argv []string
	// Dir is the working directory of the child.
	Dir string
	// Env is the complete environment of the child in "key=value" form.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome describes how a process ended.
type Outcome struct {
	// Code is the exit code of a process that exited normally.
	Code int
	// Signaled is set if the process was terminated by Signal.
	Signaled bool
	Signal   syscall.Signal
}

// Exited is the outcome of a process that called exit(code).
func Exited(code int) Outcome {
	return Outcome{Code: code}
}

// Killed is the outcome of a process terminated by sig.
func Killed(sig syscall.Signal) Outcome {
	return Outcome{Signaled: true, Signal: sig}
}

// Status converts the outcome to a shell exit status: the exit code, or 128
// plus the signal number.
func (o Outcome) Status() int {
	if o.Signaled {
		return 128 + int(o.Signal)
	}
	return o.Code
}

func (o Outcome) String() string {
	if o.Signaled {
		return fmt.Sprintf("signaled(%s)", o.Signal)
	}
	return fmt.Sprintf("exited(%d)", o.Code)
}

// Process is a started program.
type Process interface {
	Pid() int
	// Wait blocks until the process ends. It must be called exactly once.
	Wait() (Outcome, error)
}

// Spawner starts programs.
type Spawner interface {
	Start(ctx context.Context, spec Spec) (Process, error)
}

// OSSpawner starts real operating system processes. Children inherit the
// signal dispositions of the interpreter at exec time: caught signals revert
// to their default, ignored ones stay ignored.
type OSSpawner struct{}

var _ Spawner = OSSpawner{}

// Start implements Spawner.Start.
func (OSSpawner) Start(ctx context.Context, spec Spec) (Process, error) {
	cmd := &exec.Cmd{
		Path:   spec.Path,
		Args:   spec.Argv,
		Dir:    spec.Dir,
		Env:    spec.Env,
		Stdin:  spec.Stdin,
		Stdout: spec.Stdout,
		Stderr: spec.Stderr,
	}

	ctxlog.Debug(ctx, "starting process", "path", spec.Path, "argv", spec.Argv, "dir", spec.Dir)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCouldNotStart, err)
	}
	ctxlog.Debug(ctx, "process started", "pid", cmd.Process.Pid)

	return &osProcess{ctx: ctx, cmd: cmd}, nil
}

type osProcess struct {
	ctx context.Context
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *osProcess) Wait() (Outcome, error) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The process ended but copying its I/O failed.
		if p.cmd.ProcessState == nil {
			return Exited(1), err
		}
	}

	out := outcomeOf(p.cmd.ProcessState)
	ctxlog.Debug(p.ctx, "process finished", "pid", p.Pid(), "outcome", out)
	if exitErr != nil {
		err = nil
	}
	return out, err
}

type waitStatuser interface {
	Sys() any
	ExitCode() int
}

func outcomeOf(state waitStatuser) Outcome {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return Killed(ws.Signal())
		}
		return Exited(ws.ExitStatus())
	}
	return Exited(state.ExitCode())
}
