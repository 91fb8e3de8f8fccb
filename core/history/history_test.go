package history

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testPath = "/root/.solix_history"

func readFile(t *testing.T, fsys afero.Fs) string {
	t.Helper()
	contents, err := afero.ReadFile(fsys, testPath)
	require.NoError(t, err)
	return string(contents)
}

func TestManager_ring(t *testing.T) {
	m := New(afero.NewMemMapFs(), testPath, 3)

	m.Add("a")
	m.Add("")
	m.Add("b")
	assert.Equal(t, []string{"a", "b"}, m.Entries())
	assert.Equal(t, 2, m.Total())
	assert.Equal(t, 1, m.FirstNumber())

	m.Add("c")
	m.Add("d")
	m.Add("e")
	assert.Equal(t, []string{"c", "d", "e"}, m.Entries())
	assert.Equal(t, 5, m.Total())
	assert.Equal(t, 3, m.FirstNumber())

	m.Clear()
	assert.Empty(t, m.Entries())
	assert.Equal(t, 5, m.Total())

	m.Add("f")
	assert.Equal(t, []string{"f"}, m.Entries())
	assert.Equal(t, 6, m.FirstNumber())
}

func TestManager_ringProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 20).Draw(t, "capacity")
		lines := rapid.SliceOf(rapid.StringMatching(`[a-z]{1,5}`)).Draw(t, "lines")

		m := New(afero.NewMemMapFs(), testPath, capacity)
		for _, l := range lines {
			m.Add(l)
		}

		want := lines
		if len(want) > capacity {
			want = want[len(want)-capacity:]
		}
		if len(want) == 0 {
			want = []string{}
		}
		assert.Equal(t, want, m.Entries())
		assert.Equal(t, len(lines), m.Total())
	})
}

func TestManager_Load(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, testPath, []byte("ls\n\ncd /tmp\r\npwd"), 0600))

	m := New(fsys, testPath, 0)
	require.NoError(t, m.Load())
	assert.Equal(t, []string{"ls", "cd /tmp", "pwd"}, m.Entries())
	assert.Equal(t, DefaultCapacity, m.Capacity())
}

func TestManager_LoadMissing(t *testing.T) {
	m := New(afero.NewMemMapFs(), testPath, 0)
	assert.NoError(t, m.Load())
	assert.Empty(t, m.Entries())
}

func TestManager_SaveEmptyCreatesNothing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, New(fsys, testPath, 0).Save())

	exists, err := afero.Exists(fsys, testPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

// A session of N+5 lines only persists its last N and the next session
// loads exactly those.
func TestManager_windowedSave(t *testing.T) {
	fsys := afero.NewMemMapFs()

	first := New(fsys, testPath, DefaultCapacity)
	for i := 1; i <= DefaultCapacity+5; i++ {
		first.Add(fmt.Sprintf("e%d", i))
	}
	require.NoError(t, first.Save())

	second := New(fsys, testPath, DefaultCapacity)
	require.NoError(t, second.Load())

	got := second.Entries()
	require.Len(t, got, DefaultCapacity)
	assert.Equal(t, "e6", got[0])
	assert.Equal(t, fmt.Sprintf("e%d", DefaultCapacity+5), got[len(got)-1])
}

// Loaded entries are written back on every save, so the file repeats them.
func TestManager_saveRepeatsLoadedEntries(t *testing.T) {
	fsys := afero.NewMemMapFs()

	first := New(fsys, testPath, 3)
	first.Add("a")
	first.Add("b")
	require.NoError(t, first.Save())
	assert.Equal(t, "a\nb\n", readFile(t, fsys))

	second := New(fsys, testPath, 3)
	require.NoError(t, second.Load())
	second.Add("c")
	require.NoError(t, second.Save())
	assert.Equal(t, "a\nb\na\nb\nc\n", readFile(t, fsys))

	third := New(fsys, testPath, 3)
	require.NoError(t, third.Load())
	assert.Equal(t, []string{"a", "b", "c"}, third.Entries())
	assert.Equal(t, 5, third.Total())
}

func TestManager_Clone(t *testing.T) {
	m := New(afero.NewMemMapFs(), testPath, 2)
	m.Add("a")
	m.Add("b")

	clone := m.Clone()
	clone.Clear()
	clone.Add("c")

	assert.Equal(t, []string{"a", "b"}, m.Entries())
	assert.Equal(t, []string{"c"}, clone.Entries())
	assert.Equal(t, 3, clone.Total())
}
