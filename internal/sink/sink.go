// Package sink provides the two ports.Sink adapters the writer targets:
// a plain file and an in-memory buffer, mirroring the teacher's pattern
// of generators writing to a bytes.Buffer before a single disk flush.
package sink

import (
	"bytes"
	"os"
)

// FileSink wraps an *os.File as a ports.Sink.
type FileSink struct {
	f *os.File
}

// NewFile opens path for writing (truncating any existing file) and
// wraps it as a Sink.
func NewFile(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f}, nil
}

// Write implements ports.Sink.
func (s *FileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

// Close closes the underlying file.
func (s *FileSink) Close() error { return s.f.Close() }

// BufferSink wraps a bytes.Buffer as a ports.Sink, for tests and callers
// that want the rendered bytes directly.
type BufferSink struct {
	buf bytes.Buffer
}

// NewBuffer creates an empty in-memory Sink.
func NewBuffer() *BufferSink { return &BufferSink{} }

// Write implements ports.Sink.
func (s *BufferSink) Write(p []byte) (int, error) { return s.buf.Write(p) }

// Bytes returns the bytes written so far.
func (s *BufferSink) Bytes() []byte { return s.buf.Bytes() }
