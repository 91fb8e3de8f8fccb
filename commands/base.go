package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/solixos/solixsh/core/vos"
)

// CommandEntry is a command that only needs its VOS to run.
type CommandEntry struct {
	Name string
	// Short holds a one line description of the command.
	Short string
	Proc  vos.ProcessFunc
}

// AllCommands holds all registered commands by name.
var AllCommands = make(map[string]CommandEntry)

// mustAddCmd registers a command, panicking on duplicates.
func mustAddCmd(name, short string, cmd vos.ProcessFunc) {
	if _, ok := AllCommands[name]; ok {
		panic(fmt.Sprintf("command %q registered twice", name))
	}
	AllCommands[name] = CommandEntry{Name: name, Short: short, Proc: cmd}
}

// Lookup finds a registered command.
func Lookup(name string) (CommandEntry, bool) {
	entry, ok := AllCommands[name]
	return entry, ok
}

// ListBuiltinCommands returns every command sorted by name.
func ListBuiltinCommands() []CommandEntry {
	var out []CommandEntry
	for _, entry := range AllCommands {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(virtOS vos.VOS, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(virtOS.Args(), nil)
	if err != nil && !s.NeverBail {
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stderr())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback()
}

// RunEachArg runs callback for every positional argument. Failures are
// reported as "name: error" and make the command exit with 1 once every
// argument was processed.
func (s *SimpleCommand) RunEachArg(virtOS vos.VOS, callback func(arg string) error) int {
	return s.Run(virtOS, func() int {
		name := virtOS.Args()[0]
		status := 0
		for _, arg := range s.Flags().Args() {
			if err := callback(arg); err != nil {
				fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", name, err)
				status = 1
			}
		}
		return status
	})
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
)

type ColorPrinter struct {
	value  *string
	virtOS vos.VOS
}

// Init sets up the flag and virtual OS to determine the color output. The
// flag defaults to the color mode of the terminal description.
func (c *ColorPrinter) Init(flags *getopt.Set, virtOS vos.VOS) {
	c.virtOS = virtOS

	mode := colorAuto
	switch pref := virtOS.GetPTY().Color; pref {
	case colorAlways, colorNever:
		mode = pref
	}

	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		mode,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.virtOS.GetPTY().IsPTY
	}
}

// Sprint formats a using color if the output should be colored.
func (c *ColorPrinter) Sprint(clr *color.Color, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprint(a...)
	}

	// Enable on a copy, the global setting follows the interpreter's stdout.
	enabled := *clr
	enabled.EnableColor()
	return enabled.Sprint(a...)
}
