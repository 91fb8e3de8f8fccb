package vos

import (
	"github.com/spf13/afero"
)

// VFS is the file system seen by a command.
type VFS = afero.Fs

// PTY describes the terminal attached to a command's standard output.
type PTY struct {
	Width int
	IsPTY bool
	// Color is the preferred color mode of commands: always, auto or never.
	// Empty means auto.
	Color string
}

// VOS provides the virtual OS a command runs against: its arguments,
// environment, working directory, file system and standard streams.
type VOS interface {
	VEnv
	VIO
	VFS

	// Args holds command line arguments, including the command as Args[0].
	Args() []string
	// Getwd returns the absolute working directory.
	Getwd() (string, error)
	// Chdir changes the working directory. Relative paths are resolved
	// against the current one.
	Chdir(dir string) error
	// GetPTY describes the terminal connected to Stdout, if any.
	GetPTY() PTY
}

// ProcessFunc is a command that runs against a VOS and returns its exit
// status.
type ProcessFunc func(VOS) int
