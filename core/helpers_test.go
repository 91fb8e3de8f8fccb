package core

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/solixos/solixsh/core/config"
	"github.com/solixos/solixsh/core/process/processtest"
	"github.com/solixos/solixsh/core/vos"
	"github.com/solixos/solixsh/core/vos/vostest"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// scriptReader is a LineReader fed from a channel. Interrupt makes the
// pending Readline fail with ErrInterrupt and Close ends the input.
type scriptReader struct {
	lines     chan string
	interrupt chan struct{}
	closed    chan struct{}
	reading   chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	prompts []string
	saved   []string
	resets  int
}

var _ LineReader = (*scriptReader)(nil)

// newScriptReader returns a reader that yields lines, then io.EOF.
func newScriptReader(lines ...string) *scriptReader {
	r := newInteractiveReader()
	for _, line := range lines {
		r.lines <- line
	}
	close(r.lines)
	return r
}

// newInteractiveReader returns a reader whose lines are sent by the test.
func newInteractiveReader() *scriptReader {
	return &scriptReader{
		lines:     make(chan string, 64),
		interrupt: make(chan struct{}, 1),
		closed:    make(chan struct{}),
		reading:   make(chan struct{}, 64),
	}
}

func (r *scriptReader) SetPrompt(prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
}

func (r *scriptReader) Readline() (string, error) {
	r.reading <- struct{}{}
	select {
	case line, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-r.interrupt:
		return "", ErrInterrupt
	case <-r.closed:
		return "", io.EOF
	}
}

func (r *scriptReader) SaveHistory(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, line)
	return nil
}

func (r *scriptReader) ResetHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = nil
	r.resets++
}

func (r *scriptReader) Interrupt() {
	select {
	case r.interrupt <- struct{}{}:
	default:
	}
}

func (r *scriptReader) Close() error {
	r.closeOnce.Do(func() { close(r.closed) })
	return nil
}

// testShell is a shell on an in-memory file system with fake programs in
// /bin.
type testShell struct {
	*Shell

	fs      afero.Fs
	stdout  *syncBuffer
	stderr  *syncBuffer
	spawner *processtest.Spawner
	signals chan os.Signal
}

type testShellConfig struct {
	Options
	// files are written before the shell is created.
	files map[string]string
	stdin io.Reader
}

type testShellOption func(*testShellConfig)

func interactive() testShellOption {
	return func(c *testShellConfig) { c.Interactive = true }
}

func withReader(r LineReader) testShellOption {
	return func(c *testShellConfig) { c.Reader = r }
}

func withStdin(r io.Reader) testShellOption {
	return func(c *testShellConfig) { c.stdin = r }
}

func withFile(name, contents string) testShellOption {
	return func(c *testShellConfig) {
		if c.files == nil {
			c.files = make(map[string]string)
		}
		c.files[name] = contents
	}
}

func newTestShell(t *testing.T, opts ...testShellOption) *testShell {
	t.Helper()

	fsys := afero.NewMemMapFs()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}

	spawner := processtest.New().
		Handle("/bin/true", processtest.Exit(0)).
		Handle("/bin/false", processtest.Exit(1)).
		Handle("/bin/fail3", processtest.Exit(3)).
		Handle("/bin/echo", processtest.Echo).
		Handle("/bin/printf", processtest.Printf).
		Handle("/bin/cat", processtest.Cat).
		Handle("/bin/interrupted", processtest.Signaled(syscall.SIGINT))
	for _, name := range []string{"true", "false", "fail3", "echo", "printf", "cat", "interrupted", "broken"} {
		require.NoError(t, afero.WriteFile(fsys, "/bin/"+name, nil, 0755))
	}

	cfg := config.Default()
	cfg.Color = config.ColorNever

	signals := make(chan os.Signal, 1)
	tsc := testShellConfig{
		Options: Options{
			Config:  cfg,
			Spawner: spawner,
			Signals: signals,
		},
	}
	for _, opt := range opts {
		opt(&tsc)
	}
	tsc.Proc = vostest.NewProc(fsys, vos.NewVIOAdapter(tsc.stdin, stdout, stderr))
	for name, contents := range tsc.files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(contents), 0644))
	}

	s, err := New(context.Background(), tsc.Options)
	require.NoError(t, err)

	return &testShell{
		Shell:   s,
		fs:      fsys,
		stdout:  stdout,
		stderr:  stderr,
		spawner: spawner,
		signals: signals,
	}
}

// idleStdin is a terminal nobody types on. Every read blocks until release
// and is announced on reads.
type idleStdin struct {
	reads    chan struct{}
	released chan struct{}
	once     sync.Once
}

func newIdleStdin() *idleStdin {
	return &idleStdin{
		reads:    make(chan struct{}, 1),
		released: make(chan struct{}),
	}
}

func (s *idleStdin) Read([]byte) (int, error) {
	select {
	case s.reads <- struct{}{}:
	default:
	}
	<-s.released
	return 0, io.EOF
}

func (s *idleStdin) release() {
	s.once.Do(func() { close(s.released) })
}

func (ts *testShell) eval(line string) int {
	return ts.Eval(context.Background(), line)
}
