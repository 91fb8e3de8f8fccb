package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(fsys VFS, file string) error {
	d, err := fsys.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(vos VOS, file string) (string, error) {
	paths, err := LookPathAll(vos, file)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// LookPathAll is like LookPath but returns every match in PATH order.
func LookPathAll(vos VOS, file string) ([]string, error) {
	if file == "" {
		return nil, ErrNotFound
	}
	if strings.Contains(file, "/") {
		if err := findExecutable(vos, file); err != nil {
			return nil, err
		}
		return []string{file}, nil
	}

	var out []string
	for _, dir := range filepath.SplitList(vos.Getenv("PATH")) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(vos, path); err == nil {
			out = append(out, path)
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
