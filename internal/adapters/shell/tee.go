package shell

import (
	"bytes"
	"io"
	"sync"
)

// Tee accumulates everything written to it and forwards each write to an inner writer.
type Tee struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	inner io.Writer
}

// NewTee creates a Tee forwarding to inner. A nil inner discards.
func NewTee(inner io.Writer) *Tee {
	if inner == nil {
		inner = io.Discard
	}
	return &Tee{inner: inner}
}

// Write appends p to the accumulator, then forwards it to the inner writer.
func (t *Tee) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Write(p)
	return t.inner.Write(p)
}

// Bytes returns a copy of everything written so far.
func (t *Tee) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	return bytes.Clone(t.buf.Bytes())
}
