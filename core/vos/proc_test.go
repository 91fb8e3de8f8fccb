package vos

import (
	"bytes"
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/home/ada/src", 0755))
	require.NoError(t, fsys.MkdirAll("/bin", 0755))
	require.NoError(t, fsys.MkdirAll("/usr/bin", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/home/ada/notes.txt", []byte("notes"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/bin/ls", nil, 0755))
	require.NoError(t, afero.WriteFile(fsys, "/usr/bin/ls", nil, 0755))
	require.NoError(t, afero.WriteFile(fsys, "/usr/bin/readme", nil, 0644))
	return fsys
}

func TestSnapshotProc_Chdir(t *testing.T) {
	proc := NewSnapshotProc(newTestFs(t), NewMapEnv(), "/home/ada", nil)

	require.NoError(t, proc.Chdir("src"))
	wd, _ := proc.Getwd()
	assert.Equal(t, "/home/ada/src", wd)

	require.NoError(t, proc.Chdir(".."))
	wd, _ = proc.Getwd()
	assert.Equal(t, "/home/ada", wd)

	err := proc.Chdir("notes.txt")
	assert.True(t, errors.Is(err, syscall.ENOTDIR), "got %v", err)

	err = proc.Chdir("/nonexistent")
	var pathErr *fs.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "/nonexistent", pathErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	wd, _ = proc.Getwd()
	assert.Equal(t, "/home/ada", wd, "failed chdir must not move")
}

func TestProc_RelativeFs(t *testing.T) {
	proc := NewSnapshotProc(newTestFs(t), NewMapEnv(), "/home/ada", nil)

	contents, err := afero.ReadFile(proc, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes", string(contents))

	require.NoError(t, afero.WriteFile(proc, "src/main.go", []byte("package main"), 0644))
	_, err = proc.Stat("/home/ada/src/main.go")
	assert.NoError(t, err)
}

func TestProc_Fork(t *testing.T) {
	parent := NewSnapshotProc(newTestFs(t), NewMapEnvFromEnvList([]string{"A=1"}), "/home/ada", nil)
	child := parent.Fork(NewNullIO())

	require.NoError(t, child.Setenv("A", "2"))
	require.NoError(t, child.Chdir("src"))

	assert.Equal(t, "1", parent.Getenv("A"))
	wd, _ := parent.Getwd()
	assert.Equal(t, "/home/ada", wd)
	assert.False(t, child.GetPTY().IsPTY)
}

func TestProc_WithArgs(t *testing.T) {
	parent := NewSnapshotProc(newTestFs(t), NewMapEnv(), "/", nil)
	view := parent.WithArgs([]string{"ls", "-a"})

	require.NoError(t, view.Chdir("/home"))
	assert.Equal(t, []string{"ls", "-a"}, view.Args())
	assert.Nil(t, parent.Args())

	wd, _ := parent.Getwd()
	assert.Equal(t, "/home", wd, "views share the working directory")
}

func TestProc_WithFiles(t *testing.T) {
	parent := NewSnapshotProc(newTestFs(t), NewMapEnv(), "/", nil)
	out := &bytes.Buffer{}
	view := parent.WithFiles(NewVIOAdapter(nil, out, nil))

	_, err := view.Stdout().Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", out.String())

	require.NoError(t, view.Setenv("A", "1"))
	require.NoError(t, view.Chdir("/home"))
	assert.Equal(t, "1", parent.Getenv("A"))
	wd, _ := parent.Getwd()
	assert.Equal(t, "/home", wd)
}

func TestProc_WithPTY(t *testing.T) {
	parent := NewHostProc(newTestFs(t), nil, PTY{Width: 80, IsPTY: true})
	view := parent.WithPTY(PTY{Width: 80, Color: "never"})

	assert.Equal(t, PTY{Width: 80, Color: "never"}, view.GetPTY())
	assert.Equal(t, PTY{Width: 80, IsPTY: true}, parent.GetPTY())
}

func TestLookPath(t *testing.T) {
	proc := NewSnapshotProc(newTestFs(t), NewMapEnvFromEnvList([]string{"PATH=/usr/bin:/bin"}), "/home/ada", nil)

	cases := map[string]struct {
		file    string
		want    string
		wantAll []string
		err     error
	}{
		"first match wins":  {file: "ls", want: "/usr/bin/ls", wantAll: []string{"/usr/bin/ls", "/bin/ls"}},
		"not executable":    {file: "readme", err: ErrNotFound},
		"missing":           {file: "nope", err: ErrNotFound},
		"empty":             {file: "", err: ErrNotFound},
		"slash bypass path": {file: "/bin/ls", want: "/bin/ls", wantAll: []string{"/bin/ls"}},
		"slash missing":     {file: "./ls", err: ErrNotFound},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := LookPath(proc, tc.file)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			all, err := LookPathAll(proc, tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAll, all)
		})
	}
}
