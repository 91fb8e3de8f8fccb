package core

import (
	"os"

	"golang.org/x/term"

	"github.com/solixos/solixsh/core/vos"
)

const defaultWidth = 80

// HostPTY describes the terminal the interpreter is attached to. Both stdin
// and stdout need to be terminals for line editing.
func HostPTY() vos.PTY {
	in, out := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	return vos.PTY{
		IsPTY: term.IsTerminal(in) && term.IsTerminal(out),
		Width: HostWidth(),
	}
}

// HostWidth returns the width of the interpreter's terminal.
func HostWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
