package main

import (
	"io"
	"sync"
)

// lockedWriter serialises writes to w. Background shell jobs write while the
// prompt does, and out and errOut may be the same terminal, so both share mu.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
