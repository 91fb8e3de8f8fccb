package vos

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// NewRelativeFs resolves relative names against the working directory
// reported by getwd before handing them to base.
func NewRelativeFs(base VFS, getwd func() (string, error)) VFS {
	return &relativeFs{base: base, getwd: getwd}
}

type relativeFs struct {
	base  VFS
	getwd func() (string, error)
}

var _ afero.Fs = (*relativeFs)(nil)

func (r *relativeFs) abs(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	wd, err := r.getwd()
	if err != nil {
		return name
	}
	return filepath.Join(wd, name)
}

func (r *relativeFs) Create(name string) (afero.File, error) {
	return r.base.Create(r.abs(name))
}

func (r *relativeFs) Mkdir(name string, perm os.FileMode) error {
	return r.base.Mkdir(r.abs(name), perm)
}

func (r *relativeFs) MkdirAll(path string, perm os.FileMode) error {
	return r.base.MkdirAll(r.abs(path), perm)
}

func (r *relativeFs) Open(name string) (afero.File, error) {
	return r.base.Open(r.abs(name))
}

func (r *relativeFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return r.base.OpenFile(r.abs(name), flag, perm)
}

func (r *relativeFs) Remove(name string) error {
	return r.base.Remove(r.abs(name))
}

func (r *relativeFs) RemoveAll(path string) error {
	return r.base.RemoveAll(r.abs(path))
}

func (r *relativeFs) Rename(oldname, newname string) error {
	return r.base.Rename(r.abs(oldname), r.abs(newname))
}

func (r *relativeFs) Stat(name string) (os.FileInfo, error) {
	return r.base.Stat(r.abs(name))
}

func (r *relativeFs) Name() string {
	return "relative(" + r.base.Name() + ")"
}

func (r *relativeFs) Chmod(name string, mode os.FileMode) error {
	return r.base.Chmod(r.abs(name), mode)
}

func (r *relativeFs) Chown(name string, uid, gid int) error {
	return r.base.Chown(r.abs(name), uid, gid)
}

func (r *relativeFs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return r.base.Chtimes(r.abs(name), atime, mtime)
}
