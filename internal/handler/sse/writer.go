package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ErrClosed is returned by writes after the client went away.
var ErrClosed = errors.New("sse: stream closed")

// Writer serializes events onto one SSE response. It is safe for concurrent
// use by the turn goroutine and the keep-alive goroutine. After the first
// failed write every later write is dropped with ErrClosed.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewWriter sets the event-stream headers and sends them. It fails when the
// ResponseWriter cannot flush.
func NewWriter(w http.ResponseWriter, cfg *Config) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported by response writer")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // nginx
	w.WriteHeader(http.StatusOK)

	s := &Writer{w: w, flusher: flusher}
	if cfg != nil && cfg.Retry > 0 {
		s.mu.Lock()
		_ = s.write(fmt.Sprintf("retry: %d\n\n", cfg.Retry.Milliseconds()))
		s.mu.Unlock()
	} else {
		flusher.Flush()
	}
	return s, nil
}

// WriteEvent writes one named event with data JSON-encoded.
func (s *Writer) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload))
}

// WriteKeepAlive writes an SSE comment line.
func (s *Writer) WriteKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(": keepalive\n\n")
}

// Closed reports whether a write has failed.
func (s *Writer) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// write must be called with mu held.
func (s *Writer) write(frame string) error {
	if s.closed {
		return ErrClosed
	}
	if _, err := fmt.Fprint(s.w, frame); err != nil {
		s.closed = true
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	s.flusher.Flush()
	return nil
}
