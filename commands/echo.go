package commands

import (
	"fmt"
	"strings"

	"github.com/solixos/solixsh/core/vos"
)

// Echo writes its arguments separated by spaces. Flags aren't interpreted.
func Echo(virtOS vos.VOS) int {
	fmt.Fprintln(virtOS.Stdout(), strings.Join(virtOS.Args()[1:], " "))
	return 0
}

var _ vos.ProcessFunc = Echo

func init() {
	mustAddCmd("echo", "Display text", Echo)
}
