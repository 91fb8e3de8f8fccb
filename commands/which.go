package commands

import (
	"fmt"

	"github.com/solixos/solixsh/core/vos"
)

// Which implements the UNIX which command.
func Which(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "which [-a] COMMAND...",
		Short: "Locate a command.",
	}
	all := cmd.Flags().Bool('a', "print all matching executables in PATH")

	if len(virtOS.Args()) == 1 {
		return 1
	}

	return cmd.RunEachArg(virtOS, func(arg string) error {
		matches, err := vos.LookPathAll(virtOS, arg)
		if err != nil {
			return fmt.Errorf("no %s in (%s)", arg, virtOS.Getenv("PATH"))
		}
		if !*all {
			matches = matches[:1]
		}
		for _, match := range matches {
			fmt.Fprintln(virtOS.Stdout(), match)
		}
		return nil
	})
}

var _ vos.ProcessFunc = Which

func init() {
	mustAddCmd("which", "Locate a command", Which)
}
