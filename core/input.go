package core

import (
	"io"
	"sync"
)

const inputChunk = 4096

// InputPump shares one input stream between the line editor and builtins
// reading the shell's stdin. It reads from the source only while a consumer
// is waiting, and data read for a consumer that was canceled meanwhile is
// kept for the next one.
type InputPump struct {
	src io.Reader

	mu       sync.Mutex
	pending  []byte
	err      error
	inflight bool
	// filled is closed and replaced after every read from src.
	filled chan struct{}
}

// NewInputPump creates a pump reading from src.
func NewInputPump(src io.Reader) *InputPump {
	return &InputPump{
		src:    src,
		filled: make(chan struct{}),
	}
}

// Reader returns a new cancelable view of the pump.
func (p *InputPump) Reader() *InputReader {
	return &InputReader{pump: p, cancel: make(chan struct{})}
}

func (p *InputPump) read(b []byte, cancel <-chan struct{}) (int, error) {
	for {
		select {
		case <-cancel:
			return 0, errCanceled
		default:
		}

		p.mu.Lock()
		if len(p.pending) > 0 {
			n := copy(b, p.pending)
			p.pending = p.pending[n:]
			p.mu.Unlock()
			return n, nil
		}
		if p.err != nil {
			// Errors go to a single consumer, a terminal can be read again
			// after end of file.
			err := p.err
			p.err = nil
			p.mu.Unlock()
			return 0, err
		}
		if !p.inflight {
			p.inflight = true
			go p.fill()
		}
		filled := p.filled
		p.mu.Unlock()

		select {
		case <-cancel:
			return 0, errCanceled
		case <-filled:
		}
	}
}

func (p *InputPump) fill() {
	buf := make([]byte, inputChunk)
	n, err := p.src.Read(buf)

	p.mu.Lock()
	p.pending = append(p.pending, buf[:n]...)
	p.err = err
	p.inflight = false
	close(p.filled)
	p.filled = make(chan struct{})
	p.mu.Unlock()
}

// errCanceled is reported by an InputReader after Close. It is io.EOF so
// consumers treat it as the end of their input.
var errCanceled = io.EOF

// InputReader is a view of an InputPump. Closing it ends the view without
// touching the underlying stream.
type InputReader struct {
	pump   *InputPump
	cancel chan struct{}
	once   sync.Once

	mu  sync.Mutex
	cut bool
}

var _ io.ReadCloser = (*InputReader)(nil)

func (r *InputReader) Read(b []byte) (int, error) {
	n, err := r.pump.read(b, r.cancel)
	if err != nil && r.Canceled() {
		r.mu.Lock()
		r.cut = true
		r.mu.Unlock()
	}
	return n, err
}

// Close cancels pending and future reads.
func (r *InputReader) Close() error {
	r.once.Do(func() { close(r.cancel) })
	return nil
}

// Canceled reports whether Close was called.
func (r *InputReader) Canceled() bool {
	select {
	case <-r.cancel:
		return true
	default:
		return false
	}
}

// Cut reports whether a read ended because the view was closed.
func (r *InputReader) Cut() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cut
}
