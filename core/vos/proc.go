package vos

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

type workdir interface {
	Getwd() (string, error)
	Chdir(dir string) error
}

// hostWorkdir delegates to the interpreter process's working directory.
type hostWorkdir struct{}

func (hostWorkdir) Getwd() (string, error) { return os.Getwd() }

func (hostWorkdir) Chdir(dir string) error { return os.Chdir(dir) }

// snapshotWorkdir is a private copy of a working directory, validated
// against a file system but never touching the process state.
type snapshotWorkdir struct {
	base VFS
	dir  string
}

func (s *snapshotWorkdir) Getwd() (string, error) { return s.dir, nil }

func (s *snapshotWorkdir) Chdir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.dir, dir)
	}
	dir = filepath.Clean(dir)

	stat, err := s.base.Stat(dir)
	switch {
	case err != nil:
		return &fs.PathError{Op: "chdir", Path: dir, Err: unwrapPathError(err)}
	case !stat.IsDir():
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	default:
		s.dir = dir
		return nil
	}
}

func unwrapPathError(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return pe.Err
	}
	return err
}

// Proc is the VOS of a single command invocation.
type Proc struct {
	VEnv
	VIO
	VFS

	base VFS
	wd   workdir
	args []string
	pty  PTY
}

var _ VOS = (*Proc)(nil)

// NewHostProc creates a VOS bound to the interpreter's own environment and
// working directory. Builtins run against it mutate the real process state.
func NewHostProc(base VFS, files VIO, pty PTY) *Proc {
	return newProc(base, OSEnv{}, hostWorkdir{}, files, pty)
}

// NewSnapshotProc creates a VOS with a private environment and working
// directory.
func NewSnapshotProc(base VFS, env VEnv, dir string, files VIO) *Proc {
	return newProc(base, env, &snapshotWorkdir{base: base, dir: filepath.Clean(dir)}, files, PTY{})
}

func newProc(base VFS, env VEnv, wd workdir, files VIO, pty PTY) *Proc {
	if files == nil {
		files = NewNullIO()
	}
	return &Proc{
		VEnv: env,
		VIO:  files,
		VFS:  NewRelativeFs(base, wd.Getwd),
		base: base,
		wd:   wd,
		pty:  pty,
	}
}

// Fork returns a snapshot of p bound to files. Changes made through the
// fork are invisible to p.
func (p *Proc) Fork(files VIO) *Proc {
	dir, err := p.Getwd()
	if err != nil {
		dir = "/"
	}
	out := NewSnapshotProc(p.base, NewMapEnvFromEnvList(p.Environ()), dir, files)
	out.args = p.args
	return out
}

// WithArgs returns a view of p with different arguments. The view shares
// environment, working directory and streams with p.
func (p *Proc) WithArgs(argv []string) *Proc {
	out := *p
	out.args = argv
	return &out
}

// WithFiles returns a view of p bound to files. Unlike Fork the view shares
// environment and working directory with p.
func (p *Proc) WithFiles(files VIO) *Proc {
	out := *p
	out.VIO = files
	return &out
}

// WithPTY returns a view of p with a different terminal description.
func (p *Proc) WithPTY(pty PTY) *Proc {
	out := *p
	out.pty = pty
	return &out
}

// Args implements VOS.Args.
func (p *Proc) Args() []string {
	return p.args
}

// Getwd implements VOS.Getwd.
func (p *Proc) Getwd() (string, error) {
	return p.wd.Getwd()
}

// Chdir implements VOS.Chdir.
func (p *Proc) Chdir(dir string) error {
	return p.wd.Chdir(dir)
}

// GetPTY implements VOS.GetPTY.
func (p *Proc) GetPTY() PTY {
	return p.pty
}

// String is used in debug logs.
func (p *Proc) String() string {
	wd, _ := p.Getwd()
	return fmt.Sprintf("proc(%q in %s)", p.args, wd)
}
