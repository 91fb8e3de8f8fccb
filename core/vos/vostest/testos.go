// Package vostest runs commands against an in-memory VOS.
package vostest

import (
	"bytes"
	"io"

	"github.com/solixos/solixsh/core/vos"
	"github.com/spf13/afero"
)

// DefaultEnv is the environment of processes created by NewProc.
var DefaultEnv = []string{
	"HOME=/root",
	"PATH=/bin:/usr/bin",
	"USER=root",
}

// NewProc creates a snapshot process rooted at / on fsys. If fsys is nil a
// new in-memory file system is used.
func NewProc(fsys afero.Fs, files vos.VIO) *vos.Proc {
	if fsys == nil {
		fsys = afero.NewMemMapFs()
	}
	_ = fsys.MkdirAll("/root", 0755)

	return vos.NewSnapshotProc(fsys, vos.NewMapEnvFromEnvList(DefaultEnv), "/", files)
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the process changes into the directory before
	// running.
	Dir string
	// If Env is non-empty, it is added to DefaultEnv.
	Env []string
	// VOS holds the file system the command runs against, it is created by
	// Command and may be populated before Run.
	VOS afero.Fs

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// PTY describes the terminal the command writes to.
	PTY vos.PTY

	ExitStatus int

	Setup func(vos.VOS) error
}

func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		VOS:     afero.NewMemMapFs(),
	}
}

func (c *Cmd) CombinedOutput() ([]byte, error) {
	// stdout, stderr
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the command and waits for it to complete.
func (c *Cmd) Run() error {
	proc := NewProc(c.VOS, vos.NewVIOAdapter(c.Stdin, c.Stdout, c.Stderr))
	if err := vos.CopyEnv(proc, c.Env); err != nil {
		return err
	}
	if c.Dir != "" {
		if err := proc.Chdir(c.Dir); err != nil {
			return err
		}
	}
	runner := proc.WithArgs(c.Argv).WithPTY(c.PTY)

	if c.Setup != nil {
		if err := c.Setup(runner); err != nil {
			return err
		}
	}

	c.ExitStatus = c.Process(runner)
	return nil
}
