// Package history keeps a bounded ring of command lines and persists it to a
// plain text file, one line per entry.
package history

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// DefaultCapacity is the number of entries kept in memory.
const DefaultCapacity = 200

// Manager is a fixed capacity ring of the most recent command lines plus a
// count of every line ever added.
type Manager struct {
	fs   afero.Fs
	path string

	mu    sync.RWMutex
	ring  []string
	start int
	size  int
	total int
}

// New creates an empty history backed by path on fsys. A capacity below one
// means DefaultCapacity.
func New(fsys afero.Fs, path string, capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{
		fs:   fsys,
		path: path,
		ring: make([]string, capacity),
	}
}

// Path returns the history file.
func (m *Manager) Path() string {
	return m.path
}

// Capacity returns the maximum number of entries held.
func (m *Manager) Capacity() int {
	return len(m.ring)
}

// Load adds every non-empty line of the history file, oldest first. A
// missing file is not an error.
func (m *Manager) Load() error {
	fd, err := m.fs.Open(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		m.Add(scanner.Text())
	}
	return scanner.Err()
}

// Add records line, evicting the oldest entry once the ring is full. Empty
// lines are ignored.
func (m *Manager) Add(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	capacity := len(m.ring)
	if m.size < capacity {
		m.ring[(m.start+m.size)%capacity] = line
		m.size++
	} else {
		m.ring[m.start] = line
		m.start = (m.start + 1) % capacity
	}
	m.total++
}

// Entries returns the held entries, oldest first.
func (m *Manager) Entries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, m.size)
	for i := range out {
		out[i] = m.ring[(m.start+i)%len(m.ring)]
	}
	return out
}

// Total returns the number of lines added since the manager was created,
// including evicted ones.
func (m *Manager) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// FirstNumber returns the 1-based sequence number of the oldest held entry.
func (m *Manager) FirstNumber() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total - m.size + 1
}

// Clone returns an independent copy backed by the same file.
func (m *Manager) Clone() *Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := &Manager{
		fs:    m.fs,
		path:  m.path,
		ring:  append([]string(nil), m.ring...),
		start: m.start,
		size:  m.size,
		total: m.total,
	}
	return out
}

// Clear drops every held entry. The total is kept so numbering continues.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.ring {
		m.ring[i] = ""
	}
	m.start, m.size = 0, 0
}

// Save appends the current window to the history file.
//
// Entries read by Load are part of the window, so each run appends them
// again, and lines that fell out of the window before Save are lost.
func (m *Manager) Save() (err error) {
	entries := m.Entries()
	if len(entries) == 0 {
		return nil
	}

	fd, err := m.fs.OpenFile(m.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fd.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	w := bufio.NewWriter(fd)
	for _, line := range entries {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
