package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/solixos/solixsh/core/vos"
)

// uptimePath holds the seconds since boot as the first field.
var uptimePath = "/proc/uptime"

// Uptime prints how long the system has been running.
func Uptime(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "uptime",
		Short: "Tell how long the system has been running.",
	}

	return cmd.Run(virtOS, func() int {
		seconds, err := readUptime(virtOS)
		if err != nil {
			fmt.Fprintln(virtOS.Stdout(), "Uptime information not available")
			return 0
		}

		total := int(seconds)
		hours := total / 3600
		minutes := (total - hours*3600) / 60
		secs := total - hours*3600 - minutes*60
		fmt.Fprintf(virtOS.Stdout(), "System uptime: %d hours, %d minutes, %d seconds\n", hours, minutes, secs)
		return 0
	})
}

func readUptime(fsys vos.VFS) (float64, error) {
	contents, err := afero.ReadFile(fsys, uptimePath)
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(contents))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%s: empty", uptimePath)
	}
	return strconv.ParseFloat(fields[0], 64)
}

var _ vos.ProcessFunc = Uptime

func init() {
	mustAddCmd("uptime", "Show system uptime", Uptime)
}
