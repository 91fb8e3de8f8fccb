package commands

import (
	"fmt"

	"github.com/solixos/solixsh/core/vos"
)

// clearScreen erases the screen and moves the cursor home, assuming VT100
// compatibility.
const clearScreen = "\033[2J\033[H"

// Clear implements the UNIX clear command.
func Clear(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "clear",
		Short: "Clear the terminal screen.",
	}

	return cmd.Run(virtOS, func() int {
		fmt.Fprint(virtOS.Stdout(), clearScreen)
		return 0
	})
}

var _ vos.ProcessFunc = Clear

func init() {
	mustAddCmd("clear", "Clear the screen", Clear)
}
