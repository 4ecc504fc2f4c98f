package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// JSONLTraceWriter writes TraceStep records as JSON Lines (one JSON object per line).
type JSONLTraceWriter struct {
	enc    *json.Encoder
	buf    *bufio.Writer
	closer io.Closer // optional, only set when we own the underlying writer
	closed bool
}

// ErrTraceWriterClosed is returned when WriteStep is called after Close.
var ErrTraceWriterClosed = errors.New("jsonl trace writer is closed")

// NewJSONLTraceWriter creates a JSONLTraceWriter using the provided io.Writer.
// The writer passed in is NOT closed by JSONLTraceWriter. Close() will only
// flush the internal buffer.
func NewJSONLTraceWriter(w io.Writer) *JSONLTraceWriter {
	buf := bufio.NewWriterSize(w, 64*1024)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	return &JSONLTraceWriter{
		enc: enc,
		buf: buf,
	}
}

// NewJSONLTraceWriterFile opens the given file path for writing (truncate or create)
// and returns a JSONLTraceWriter that owns the file.
// Close() will flush and close the underlying file.
func NewJSONLTraceWriterFile(path string) (*JSONLTraceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewJSONLTraceWriter(f)
	w.closer = f
	return w, nil
}

// WriteStep encodes a single TraceStep as a JSON object followed by a newline.
func (w *JSONLTraceWriter) WriteStep(step *TraceStep) error {
	if w.closed {
		return ErrTraceWriterClosed
	}
	return w.enc.Encode(step)
}

// Flush forces buffered data to be written to the underlying writer.
func (w *JSONLTraceWriter) Flush() error {
	if w.closed {
		return ErrTraceWriterClosed
	}
	return w.buf.Flush()
}

// Close flushes any buffered data. If the JSONLTraceWriter owns the underlying
// writer (created via NewJSONLTraceWriterFile), it will also close it.
func (w *JSONLTraceWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.buf.Flush(); err != nil {
		if w.closer != nil {
			_ = w.closer.Close()
		}
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// ReadJSONL decodes every TraceStep from r.
func ReadJSONL(r io.Reader) ([]*TraceStep, error) {
	dec := json.NewDecoder(r)
	var steps []*TraceStep
	for {
		var s TraceStep
		err := dec.Decode(&s)
		if err == io.EOF {
			return steps, nil
		}
		if err != nil {
			return steps, fmt.Errorf("trace record %d: %w", len(steps)+1, err)
		}
		steps = append(steps, &s)
	}
}

// ReadJSONLFile is ReadJSONL over a file.
func ReadJSONLFile(path string) ([]*TraceStep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSONL(f)
}
