package core

import (
	"fmt"
	"io"
	"sync"

	"github.com/abiosoft/readline"

	"github.com/solixos/solixsh/core/vos"
)

// ErrInterrupt is returned by a LineReader when the user abandons the line.
var ErrInterrupt = readline.ErrInterrupt

// LineReader reads input lines for the REPL.
type LineReader interface {
	SetPrompt(prompt string)
	// Readline blocks until a line is entered. It returns io.EOF at the end
	// of input and ErrInterrupt if the line was abandoned.
	Readline() (string, error)
	// SaveHistory makes line available to history navigation.
	SaveHistory(line string) error
	// Interrupt is called when SIGINT arrives during Readline. The pending
	// Readline returns ErrInterrupt unless its line was already complete.
	Interrupt()
	// Close makes pending and future reads return io.EOF.
	Close() error
}

// ReaderOptions configure NewReadlineReader.
type ReaderOptions struct {
	Files vos.VIO
	// Input is shared with builtins reading the shell's stdin. If nil, a
	// pump on Files.Stdin() is created.
	Input *InputPump
	PTY   vos.PTY
	// Width reports the terminal width, PTY.Width is used if nil.
	Width func() int
	// Completions are offered for the first word of a line.
	Completions []string
	// History preloads history navigation.
	History []string
	// HistoryLimit bounds the navigable history.
	HistoryLimit int
}

// readlineReader drives a readline instance. An interrupted instance can't
// be reused because its terminal loop stops on the canceled read, so the
// next Readline builds a fresh one on the same input pump.
type readlineReader struct {
	opts  ReaderOptions
	input *InputPump

	mu       sync.Mutex
	instance *readline.Instance
	stdin    *InputReader
	prompt   string
	history  []string

	stale       bool
	interrupted bool
	closed      bool
}

var _ LineReader = (*readlineReader)(nil)

// NewReadlineReader creates a line editor on opts.Files. History is never
// written to disk by the editor itself.
func NewReadlineReader(opts ReaderOptions) (LineReader, error) {
	input := opts.Input
	if input == nil {
		input = NewInputPump(opts.Files.Stdin())
	}

	r := &readlineReader{
		opts:    opts,
		input:   input,
		history: append([]string(nil), opts.History...),
	}
	r.trimHistory()

	if err := r.rebuild(); err != nil {
		return nil, err
	}
	return r, nil
}

// rebuild replaces the current instance. r.mu must be held.
func (r *readlineReader) rebuild() error {
	if r.instance != nil {
		_ = r.instance.Close()
		r.instance = nil
	}

	var items []readline.PrefixCompleterInterface
	for _, name := range r.opts.Completions {
		items = append(items, readline.PcItem(name))
	}

	width := r.opts.Width
	if width == nil {
		width = func() int { return r.opts.PTY.Width }
	}

	stdin := r.input.Reader()
	cfg := &readline.Config{
		Prompt:                 r.prompt,
		Stdin:                  stdin,
		Stdout:                 r.opts.Files.Stdout(),
		Stderr:                 r.opts.Files.Stderr(),
		HistoryLimit:           r.opts.HistoryLimit,
		DisableAutoSaveHistory: true,
		AutoComplete:           readline.NewPrefixCompleter(items...),
		FuncGetWidth:           width,
		FuncIsTerminal: func() bool {
			return r.opts.PTY.IsPTY
		},
	}

	if !r.opts.PTY.IsPTY {
		// Leave the terminal modes of the interpreter's own stdin alone.
		cfg.FuncMakeRaw = func() error { return nil }
		cfg.FuncExitRaw = func() error { return nil }
	}

	if err := cfg.Init(); err != nil {
		return err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}

	for _, line := range r.history {
		if err := instance.SaveHistory(line); err != nil {
			_ = instance.Close()
			return err
		}
	}

	r.instance = instance
	r.stdin = stdin
	r.stale = false
	return nil
}

func (r *readlineReader) SetPrompt(prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompt = prompt
	if r.instance != nil {
		r.instance.SetPrompt(prompt)
	}
}

func (r *readlineReader) Readline() (string, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", io.EOF
	}
	if r.stale {
		if err := r.rebuild(); err != nil {
			r.mu.Unlock()
			return "", err
		}
	}
	if r.interrupted {
		r.interrupted = false
		r.mu.Unlock()
		return "", ErrInterrupt
	}
	instance, stdin := r.instance, r.stdin
	r.mu.Unlock()

	line, err := instance.Readline()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.interrupted = false
	switch {
	case r.closed:
		return "", io.EOF
	case stdin.Cut():
		// The read was canceled, whatever readline flushed is abandoned.
		return "", ErrInterrupt
	}
	return line, err
}

func (r *readlineReader) SaveHistory(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, line)
	r.trimHistory()
	return r.instance.SaveHistory(line)
}

func (r *readlineReader) trimHistory() {
	if limit := r.opts.HistoryLimit; limit > 0 && len(r.history) > limit {
		r.history = r.history[len(r.history)-limit:]
	}
}

// Interrupt cancels the read of the current instance. Input already taken
// from the terminal by the canceled read is handed to the next instance.
func (r *readlineReader) Interrupt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.stale = true
	r.interrupted = true
	_ = r.stdin.Close()
	fmt.Fprintln(r.opts.Files.Stdout(), "^C")
}

func (r *readlineReader) ResetHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
	r.instance.ResetHistory()
}

func (r *readlineReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	_ = r.stdin.Close()
	return r.instance.Close()
}
