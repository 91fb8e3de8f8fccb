package core

import (
	"sync"
)

// foreground tracks the views of the shell's stdin handed to builtins of the
// running segment so SIGINT can end their reads.
type foreground struct {
	input *InputPump

	mu       sync.Mutex
	readers  []*InputReader
	canceled bool
}

// stdin returns a new view of the shell's stdin for one builtin.
func (fg *foreground) stdin() *InputReader {
	r := fg.input.Reader()

	fg.mu.Lock()
	defer fg.mu.Unlock()
	fg.readers = append(fg.readers, r)
	if fg.canceled {
		_ = r.Close()
	}
	return r
}

func (fg *foreground) cancel() {
	fg.mu.Lock()
	defer fg.mu.Unlock()
	fg.canceled = true
	for _, r := range fg.readers {
		_ = r.Close()
	}
}

// interrupted reports whether SIGINT ended a builtin's read of the shell's
// stdin.
func (fg *foreground) interrupted() bool {
	fg.mu.Lock()
	defer fg.mu.Unlock()
	for _, r := range fg.readers {
		if r.Cut() {
			return true
		}
	}
	return false
}

func (fg *foreground) release() {
	fg.mu.Lock()
	defer fg.mu.Unlock()
	for _, r := range fg.readers {
		_ = r.Close()
	}
}

// beginForeground registers the segment about to run. A SIGINT that arrived
// since the line was read cancels it right away.
func (s *Shell) beginForeground() *foreground {
	fg := &foreground{input: s.Input}

	s.fgMu.Lock()
	s.fg = fg
	s.fgMu.Unlock()

	if s.interrupted.Load() {
		fg.cancel()
	}
	return fg
}

// endForeground unregisters fg and reports whether it was interrupted.
func (s *Shell) endForeground(fg *foreground) bool {
	s.fgMu.Lock()
	if s.fg == fg {
		s.fg = nil
	}
	s.fgMu.Unlock()

	interrupted := fg.interrupted()
	fg.release()
	return interrupted
}

func (s *Shell) cancelForeground() {
	s.fgMu.Lock()
	fg := s.fg
	s.fgMu.Unlock()

	if fg != nil {
		fg.cancel()
	}
}
