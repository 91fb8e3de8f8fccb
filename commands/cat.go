package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/solixos/solixsh/core/vos"
)

// Cat implements the UNIX cat command. Without files, or for "-", it copies
// stdin.
func Cat(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	if len(virtOS.Args()) == 1 {
		return cmd.Run(virtOS, func() int {
			if _, err := io.Copy(virtOS.Stdout(), virtOS.Stdin()); err != nil {
				fmt.Fprintf(virtOS.Stderr(), "cat: %v\n", err)
				return 1
			}
			return 0
		})
	}

	return cmd.RunEachArg(virtOS, func(name string) error {
		if name == "-" {
			_, err := io.Copy(virtOS.Stdout(), virtOS.Stdin())
			return err
		}

		fd, err := virtOS.Open(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, pathCause(err))
		}
		defer fd.Close()

		if _, err := io.Copy(virtOS.Stdout(), fd); err != nil {
			return fmt.Errorf("%s: %w", name, pathCause(err))
		}
		return nil
	})
}

// pathCause strips the operation and path from a *fs.PathError.
func pathCause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

var _ vos.ProcessFunc = Cat

func init() {
	mustAddCmd("cat", "Display file contents", Cat)
}
