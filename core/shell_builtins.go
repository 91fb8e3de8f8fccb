package core

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pborman/getopt/v2"
)

// Cd is the cd shell builtin.
func Cd(s *Shell, args []string) int {
	var dir string
	switch len(args) {
	case 1:
		dir = s.VirtualOS.Getenv(EnvHome)
		if dir == "" {
			dir = s.Config.DefaultHome
		}
	case 2:
		dir = args[1]
	default:
		fmt.Fprintf(s.VirtualOS.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}

	if err := s.VirtualOS.Chdir(dir); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s: %v\n", args[0], dir, err)
		return 1
	}

	if wd, err := s.VirtualOS.Getwd(); err == nil {
		_ = s.VirtualOS.Setenv(EnvPWD, wd)
	}
	return 0
}

// Exit asks the shell to stop with the given code, 0 by default.
func Exit(s *Shell, args []string) int {
	code := 0
	switch {
	case len(args) > 2:
		fmt.Fprintf(s.VirtualOS.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	case len(args) == 2:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s: numeric argument required\n", args[0], args[1])
			n = 2
		}
		code = n
	}

	if s.interactive {
		fmt.Fprintln(s.VirtualOS.Stdout(), s.infoColor().Sprint("Goodbye from Solix!"))
	}
	s.requestExit(code)
	return code
}

// Export sets environment variables given as NAME=value. Without arguments
// it prints the environment.
func Export(s *Shell, args []string) int {
	w := s.VirtualOS.Stdout()
	if len(args) == 1 {
		environ := s.VirtualOS.Environ()
		sort.Strings(environ)
		for _, kv := range environ {
			fmt.Fprintf(w, "export %s\n", kv)
		}
		return 0
	}

	var merr *multierror.Error
	for _, arg := range args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			merr = multierror.Append(merr, fmt.Errorf("%q: not a valid assignment, want NAME=value", arg))
			continue
		}
		if err := s.VirtualOS.Setenv(name, value); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", name, err))
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		for _, e := range merr.WrappedErrors() {
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %v\n", args[0], e)
		}
		return 1
	}
	return 0
}

// Unset removes environment variables.
func Unset(s *Shell, args []string) int {
	opts := getopt.New()
	opts.Bool('f', "treat NAME as a function")
	opts.Bool('v', "treat NAME as a variable")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.VirtualOS.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: unset [-fv] [NAME...]")
		fmt.Fprintln(w, "Unset environment variables.")
		if err != nil {
			return 2
		}
		return 0
	}

	for _, name := range opts.Args() {
		if err := s.VirtualOS.Unsetenv(name); err != nil {
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s: %v\n", args[0], name, err)
			return 1
		}
	}
	return 0
}

// History prints the command history with sequence numbers.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.VirtualOS.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 2
		}
		return 0
	}

	if *clear {
		s.History.Clear()
		if r, ok := s.Reader.(interface{ ResetHistory() }); ok {
			r.ResetHistory()
		}
		return 0
	}

	first := s.History.FirstNumber()
	for i, line := range s.History.Entries() {
		fmt.Fprintf(s.VirtualOS.Stdout(), "%5d  %s\n", first+i, line)
	}
	return 0
}

// Help lists the builtins.
func Help(s *Shell, args []string) int {
	w := s.VirtualOS.Stdout()
	fmt.Fprintln(w, "Solix Shell - Built-in Commands:")
	fmt.Fprintln(w, "================================")
	fmt.Fprintln(w)

	for _, entry := range s.Builtins.Entries() {
		fmt.Fprintf(w, "  %-12s - %s\n", entry.Name, entry.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "External programs can also be executed by typing their name.")
	fmt.Fprintln(w, "Chain commands with ;, && and ||, connect two with | and redirect with <, > and >>.")
	fmt.Fprintln(w, "Use Ctrl+C to interrupt running programs.")
	fmt.Fprintln(w, "Use 'exit' to quit the shell.")
	return 0
}
