package core

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/solixos/solixsh/core/ctxlog"
	"github.com/solixos/solixsh/core/process"
	"github.com/solixos/solixsh/core/shell"
	"github.com/solixos/solixsh/core/vos"
)

// execSegment runs seg in the foreground. If SIGINT ends a builtin reading
// the shell's stdin the status is StatusInterrupted.
func (s *Shell) execSegment(ctx context.Context, seg shell.Segment) int {
	if seg.IsPipeline() && seg.IsNoop() {
		return 0
	}

	fg := s.beginForeground()
	var status int
	if seg.IsPipeline() {
		status = s.execPipeline(ctx, fg, seg.Left, *seg.Right)
	} else {
		status = s.execSimple(ctx, fg, seg.Left)
	}
	if s.endForeground(fg) {
		ctxlog.Debug(ctx, "segment interrupted", "status", status)
		return StatusInterrupted
	}
	return status
}

// execSimple runs a single command. Builtins without redirections run in the
// interpreter itself, everything else is started through the spawner.
func (s *Shell) execSimple(ctx context.Context, fg *foreground, cmd shell.Command) int {
	files := &redirects{}
	defer files.Close()

	stdin, err := files.openInput(s.VirtualOS, cmd.Input, cmd.InputSet)
	if err != nil {
		s.reportOpen(err)
		return 1
	}
	stdout, err := files.openOutput(s.VirtualOS, cmd.Output, cmd.OutputSet, cmd.Append)
	if err != nil {
		s.reportOpen(err)
		return 1
	}

	if len(cmd.Argv) == 0 {
		return 0
	}

	if builtin, ok := s.Builtins.Lookup(cmd.Name()); ok && !cmd.HasRedirect() {
		ctxlog.Debug(ctx, "running builtin", "argv", cmd.Argv)
		return s.runInProcess(builtin, fg, cmd.Argv)
	}

	proc, status := s.startExternal(ctx, cmd.Argv, orReader(stdin, s.VirtualOS.Stdin()), orWriter(stdout, s.VirtualOS.Stdout()))
	if proc == nil {
		return status
	}
	return s.wait(ctx, proc)
}

// runInProcess runs builtin against the interpreter with its stdin replaced
// by a foreground view.
func (s *Shell) runInProcess(builtin ShellBuiltin, fg *foreground, argv []string) int {
	saved := s.VirtualOS
	defer func() { s.VirtualOS = saved }()

	s.VirtualOS = saved.WithFiles(vos.NewVIOAdapter(fg.stdin(), saved.Stdout(), saved.Stderr()))
	return builtin.Main(s, argv)
}

// startExternal resolves argv[0] against PATH and starts it. If the program
// can't be started the returned process is nil and status says why.
func (s *Shell) startExternal(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer) (process.Process, int) {
	name := argv[0]
	path, err := vos.LookPath(s.VirtualOS, name)
	if err != nil {
		if errors.Is(err, vos.ErrNotFound) {
			s.errorf("%s: command not found", name)
		} else {
			s.errorf("%s: %v", name, err)
		}
		return nil, StatusNotFound
	}

	dir, err := s.VirtualOS.Getwd()
	if err != nil {
		s.errorf("%s: %v", name, err)
		return nil, 1
	}

	proc, err := s.Spawner.Start(ctx, process.Spec{
		Path:   path,
		Argv:   argv,
		Dir:    dir,
		Env:    s.VirtualOS.Environ(),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: s.VirtualOS.Stderr(),
	})
	if err != nil {
		// The program was found but couldn't be executed.
		s.errorf("%s: %v", name, err)
		return nil, StatusNotFound
	}
	return proc, 0
}

func (s *Shell) wait(ctx context.Context, proc process.Process) int {
	outcome, err := proc.Wait()
	if err != nil {
		ctxlog.Warn(ctx, "wait failed", "pid", proc.Pid(), "error", err)
	}
	if outcome.Signaled {
		ctxlog.Info(ctx, "process signaled", "pid", proc.Pid(), "signal", outcome.Signal.String())
	}
	return outcome.Status()
}

// execPipeline connects the stdout of left to the stdin of right. Only the
// input redirection of left and the output redirection of right apply. Both
// stages are always waited for, the status is the one of right.
func (s *Shell) execPipeline(ctx context.Context, fg *foreground, left, right shell.Command) int {
	files := &redirects{}
	defer files.Close()

	stdin, err := files.openInput(s.VirtualOS, left.Input, left.InputSet)
	if err != nil {
		s.reportOpen(err)
		return 1
	}
	stdout, err := files.openOutput(s.VirtualOS, right.Output, right.OutputSet, right.Append)
	if err != nil {
		s.reportOpen(err)
		return 1
	}

	r, w, err := os.Pipe()
	if err != nil {
		s.errorf("pipe: %v", err)
		return 1
	}

	leftStage := s.startStage(ctx, fg, left.Argv, stdin, w)
	rightStage := s.startStage(ctx, fg, right.Argv, r, orWriter(stdout, s.VirtualOS.Stdout()))

	// Each pipe end is released once the stage using it is done so the other
	// side sees EOF or a broken pipe.
	var rightStatus int
	var g errgroup.Group
	g.Go(func() error {
		leftStage.wait()
		return w.Close()
	})
	g.Go(func() error {
		rightStatus = rightStage.wait()
		return r.Close()
	})
	if err := g.Wait(); err != nil {
		ctxlog.Debug(ctx, "closing pipe", "error", err)
	}

	return rightStatus
}

// stage is one side of a pipeline.
type stage struct {
	wait func() int
}

func finishedStage(status int) stage {
	return stage{wait: func() int { return status }}
}

// startStage runs argv with the given streams, a nil stdin is the shell's.
// Builtins run in a goroutine against a fork of the shell and read the
// shell's stdin through a foreground view.
func (s *Shell) startStage(ctx context.Context, fg *foreground, argv []string, stdin io.Reader, stdout io.Writer) stage {
	if builtin, ok := s.Builtins.Lookup(argv[0]); ok {
		if stdin == nil {
			stdin = fg.stdin()
		}
		child := s.fork(vos.NewVIOAdapter(stdin, stdout, s.VirtualOS.Stderr()))
		done := make(chan int, 1)
		go func() {
			done <- builtin.Main(child, argv)
		}()
		return stage{wait: func() int { return <-done }}
	}

	proc, status := s.startExternal(ctx, argv, orReader(stdin, s.VirtualOS.Stdin()), stdout)
	if proc == nil {
		return finishedStage(status)
	}
	return stage{wait: func() int { return s.wait(ctx, proc) }}
}

func (s *Shell) reportOpen(err error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		s.errorf("%s: %v", pathErr.Path, pathErr.Err)
		return
	}
	s.errorf("%v", err)
}

// redirects tracks the files opened for one segment.
type redirects []io.Closer

// openInput opens the input redirection if set is true.
func (r *redirects) openInput(fsys vos.VFS, path string, set bool) (io.Reader, error) {
	if !set {
		return nil, nil
	}
	if path == "" {
		return nil, emptyPathError("open")
	}
	fd, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	*r = append(*r, fd)
	return fd, nil
}

// openOutput opens the output redirection if set is true.
func (r *redirects) openOutput(fsys vos.VFS, path string, set, appendMode bool) (io.Writer, error) {
	if !set {
		return nil, nil
	}
	if path == "" {
		return nil, emptyPathError("open")
	}

	flag := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	fd, err := fsys.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	*r = append(*r, fd)
	return fd, nil
}

// emptyPathError is the error of opening "", which the working directory
// relative file system would otherwise resolve to the directory itself.
func emptyPathError(op string) error {
	return &fs.PathError{Op: op, Path: "", Err: syscall.ENOENT}
}

func (r *redirects) Close() {
	for _, c := range *r {
		_ = c.Close()
	}
	*r = nil
}

func orReader(r, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
