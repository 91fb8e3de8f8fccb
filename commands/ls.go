package commands

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/solixos/solixsh/core/vos"
)

// Ls implements the UNIX ls command. Entries are printed on one line
// separated by tabs, directories are suffixed with "/" and executables with
// "*".
func Ls(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION]... [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}
	listAll := cmd.Flags().Bool('a', "don't ignore entries starting with .")

	var color ColorPrinter
	color.Init(cmd.Flags(), virtOS)

	return cmd.Run(virtOS, func() int {
		operands := cmd.Flags().Args()
		// Hidden entries are only skipped when listing the working directory.
		showHidden := *listAll || len(operands) > 0
		if len(operands) == 0 {
			operands = []string{"."}
		}
		sort.Strings(operands)

		w := virtOS.Stdout()
		status := 0
		for i, operand := range operands {
			info, err := virtOS.Stat(operand)
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "ls: %s: %v\n", operand, pathCause(err))
				status = 1
				continue
			}

			if !info.IsDir() {
				fmt.Fprintln(w, decorate(&color, operand, info))
				continue
			}

			if len(operands) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s:\n", operand)
			}

			names, err := listDir(virtOS, &color, operand, showHidden)
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "ls: %s: %v\n", operand, pathCause(err))
				status = 1
				continue
			}
			if len(names) > 0 {
				fmt.Fprintln(w, strings.Join(names, "\t"))
			}
		}
		return status
	})
}

func listDir(fsys vos.VFS, color *ColorPrinter, dir string, showHidden bool) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		if !showHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		// Follow links so they're annotated like their targets.
		info := entry
		if target, err := fsys.Stat(path.Join(dir, entry.Name())); err == nil {
			info = target
		}
		out = append(out, decorate(color, entry.Name(), info))
	}
	return out, nil
}

func decorate(color *ColorPrinter, name string, info fs.FileInfo) string {
	switch {
	case info.IsDir():
		return color.Sprint(ColorBoldBlue, name+"/")
	case info.Mode().Perm()&0100 != 0:
		return color.Sprint(ColorBoldGreen, name+"*")
	default:
		return name
	}
}

var _ vos.ProcessFunc = Ls

func init() {
	mustAddCmd("ls", "List directory contents", Ls)
}
