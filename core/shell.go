package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/solixos/solixsh/core/config"
	"github.com/solixos/solixsh/core/ctxlog"
	"github.com/solixos/solixsh/core/history"
	"github.com/solixos/solixsh/core/process"
	"github.com/solixos/solixsh/core/shell"
	"github.com/solixos/solixsh/core/vos"
	"github.com/spf13/afero"
)

const (
	EnvHome  = "HOME"
	EnvPWD   = "PWD"
	EnvPath  = "PATH"
	EnvShell = "SHELL"
	EnvUser  = "USER"
	// EnvPrompt holds the prompt template, see Shell.Prompt.
	EnvPrompt = "PS1"

	// StatusInterrupted is the status left by an interrupted read.
	StatusInterrupted = 130
	// StatusNotFound is the status of a command that couldn't be resolved.
	StatusNotFound = 127
)

// Options configure a Shell.
type Options struct {
	// Config holds the shell configuration, the defaults are used if nil.
	Config *config.Configuration
	// Proc is the interpreter's own process. If nil, the host process with
	// the OS file system and standard streams is used.
	Proc *vos.Proc
	// Spawner starts external commands, OSSpawner if nil.
	Spawner process.Spawner
	// Reader supplies input lines to Run.
	Reader LineReader
	// Signals overrides the channel OS signals are read from by Run.
	Signals chan os.Signal
	// Interactive enables history persistence and session messages.
	Interactive bool
}

// Shell holds the interpreter state: the last status, the environment and
// working directory of its process, the history and the exit request.
type Shell struct {
	VirtualOS *vos.Proc
	Config    *config.Configuration
	Builtins  *Registry
	History   *history.Manager
	Spawner   process.Spawner
	Reader    LineReader
	// Input shares the interpreter's stdin between the line reader and
	// builtins.
	Input *InputPump

	interactive bool
	status      int
	exitCode    int
	exiting     bool

	signals     chan os.Signal
	interrupted atomic.Bool
	terminating atomic.Bool
	atPrompt    atomic.Bool

	fgMu sync.Mutex
	fg   *foreground

	closed bool
}

// New creates a shell and initializes its environment. Interactive shells
// load their history.
func New(ctx context.Context, opts Options) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	proc := opts.Proc
	if proc == nil {
		proc = vos.NewHostProc(afero.NewOsFs(), vos.NewOSIO(), vos.PTY{})
	}

	spawner := opts.Spawner
	if spawner == nil {
		spawner = process.OSSpawner{}
	}

	s := &Shell{
		VirtualOS:   proc,
		Config:      cfg,
		Builtins:    DefaultBuiltins(),
		Spawner:     spawner,
		Reader:      opts.Reader,
		Input:       NewInputPump(proc.Stdin()),
		interactive: opts.Interactive,
		signals:     opts.Signals,
	}

	if err := s.Init(); err != nil {
		return nil, err
	}

	s.History = history.New(proc, cfg.HistoryPath(proc.Getenv(EnvHome)), cfg.HistorySize)
	if s.interactive {
		if err := s.History.Load(); err != nil {
			ctxlog.Warn(ctx, "couldn't load history", "path", s.History.Path(), "error", err)
		}
	}

	return s, nil
}

// Init sets up the environment variables the shell provides to commands.
func (s *Shell) Init() error {
	env := s.VirtualOS
	if err := env.Setenv(EnvShell, s.Config.ShellPath); err != nil {
		return err
	}
	if err := env.Setenv(EnvPrompt, s.Config.Prompt); err != nil {
		return err
	}
	if _, ok := env.LookupEnv(EnvPath); !ok {
		if err := env.Setenv(EnvPath, s.Config.DefaultPath); err != nil {
			return err
		}
	}
	if wd, err := env.Getwd(); err == nil {
		return env.Setenv(EnvPWD, wd)
	}
	return nil
}

// Status returns the status of the last executed command, $?.
func (s *Shell) Status() int {
	return s.status
}

// Exiting reports whether exit was called or the shell was asked to
// terminate.
func (s *Shell) Exiting() bool {
	return s.exiting || s.terminating.Load()
}

// ExitStatus is the status the interpreter should exit with.
func (s *Shell) ExitStatus() int {
	if s.exiting {
		return s.exitCode
	}
	return s.status
}

// requestExit stops the shell after the current command.
func (s *Shell) requestExit(code int) {
	s.exiting = true
	s.exitCode = code
}

// Eval runs every segment of line and returns the resulting status.
func (s *Shell) Eval(ctx context.Context, line string) int {
	tokens := shell.Tokenize(line, s.Config.MaxTokens)
	ctxlog.Debug(ctx, "eval", "line", line, "tokens", len(tokens))

	prevOp := ""
	for _, link := range shell.SplitChain(tokens) {
		// SIGTERM only stops the REPL between lines.
		if s.exiting {
			break
		}

		if len(link.Tokens) > 0 && shell.ShouldRun(prevOp, s.status) {
			expanded := shell.Expand(link.Tokens, s.status, s.VirtualOS.LookupEnv)
			s.status = s.execSegment(ctx, shell.Compile(expanded))
		}
		prevOp = link.Op
	}

	return s.status
}

// Run reads and evaluates lines until the input ends, exit is called or
// SIGTERM arrives. It returns the final status.
func (s *Shell) Run(ctx context.Context) int {
	if s.Reader == nil {
		ctxlog.Error(ctx, "no line reader configured")
		return 1
	}

	stop := s.watchSignals(ctx)
	defer stop()

	for !s.Exiting() {
		s.interrupted.Store(false)
		s.Reader.SetPrompt(s.Prompt())

		s.atPrompt.Store(true)
		line, err := s.Reader.Readline()
		s.atPrompt.Store(false)

		switch {
		case s.terminating.Load():
			ctxlog.Info(ctx, "terminating")
			return s.ExitStatus()
		case errors.Is(err, ErrInterrupt):
			s.status = StatusInterrupted
			continue
		case errors.Is(err, io.EOF):
			return s.ExitStatus()
		case err != nil:
			ctxlog.Warn(ctx, "couldn't read line", "error", err)
			return s.ExitStatus()
		}

		if line == "" {
			continue
		}

		s.History.Add(line)
		if err := s.Reader.SaveHistory(line); err != nil {
			ctxlog.Debug(ctx, "couldn't add line to reader history", "error", err)
		}

		s.Eval(ctx, line)
	}

	return s.ExitStatus()
}

// Close flushes the history of interactive shells and releases the reader.
func (s *Shell) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var result error
	if s.interactive {
		if err := s.History.Save(); err != nil {
			result = multierror.Append(result, fmt.Errorf("saving history: %w", err))
		}
	}
	if s.Reader != nil {
		if err := s.Reader.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

// fork creates a copy of the shell bound to files. Builtins running in the
// copy can't change the state of s.
func (s *Shell) fork(files vos.VIO) *Shell {
	return &Shell{
		VirtualOS: s.VirtualOS.Fork(files),
		Config:    s.Config,
		Builtins:  s.Builtins,
		History:   s.History.Clone(),
		Spawner:   s.Spawner,
		status:    s.status,
	}
}

// errorf reports a shell level error on stderr.
func (s *Shell) errorf(format string, a ...any) {
	fmt.Fprintf(s.VirtualOS.Stderr(), "solix: "+format+"\n", a...)
}
