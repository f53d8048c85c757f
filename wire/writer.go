package wire

import "fmt"

// BufferWriter is a growable in-memory writer.
type BufferWriter struct {
	buf []byte
}

// NewBufferWriter creates an empty writer.
func NewBufferWriter() *BufferWriter {
	return &BufferWriter{
		buf: make([]byte, 0),
	}
}

// NewBufferWriterSize creates an empty writer with the given initial capacity.
func NewBufferWriterSize(capacity int) *BufferWriter {
	return &BufferWriter{
		buf: make([]byte, 0, capacity),
	}
}

// WriteByte implements Writer.
func (w *BufferWriter) WriteByte(c byte) error {
	w.buf = append(w.buf, c)
	return nil
}

// WriteAll implements Writer.
func (w *BufferWriter) WriteAll(p []byte) error {
	w.buf = append(w.buf, p...)
	return nil
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *BufferWriter) Bytes() []byte {
	return w.buf
}

// Len returns the number of written bytes.
func (w *BufferWriter) Len() int {
	return len(w.buf)
}

// Reset clears the writer buffer
func (w *BufferWriter) Reset() {
	w.buf = w.buf[:0]
}

// FixedWriter writes into a buffer of fixed capacity and never grows it.
// A write that does not fit fails with ErrCapacityExceeded before any
// byte of it is copied.
type FixedWriter struct {
	buf []byte
	pos int
}

// NewFixedWriter creates a writer over the borrowed slice buf. Writing
// starts at buf[0] and may use up to len(buf) bytes.
func NewFixedWriter(buf []byte) *FixedWriter {
	return &FixedWriter{buf: buf}
}

// NewFixedWriterSize creates a writer that owns a buffer of capacity bytes.
func NewFixedWriterSize(capacity int) *FixedWriter {
	return &FixedWriter{buf: make([]byte, capacity)}
}

func (w *FixedWriter) ensure(n int) error {
	if n > len(w.buf)-w.pos {
		return fmt.Errorf("%w: %d bytes requested, %d available", ErrCapacityExceeded, n, len(w.buf)-w.pos)
	}
	return nil
}

// WriteByte implements Writer.
func (w *FixedWriter) WriteByte(c byte) error {
	if err := w.ensure(1); err != nil {
		return err
	}
	w.buf[w.pos] = c
	w.pos++
	return nil
}

// WriteAll implements Writer.
func (w *FixedWriter) WriteAll(p []byte) error {
	if err := w.ensure(len(p)); err != nil {
		return err
	}
	w.pos += copy(w.buf[w.pos:], p)
	return nil
}

// Bytes returns the written portion of the buffer.
func (w *FixedWriter) Bytes() []byte {
	return w.buf[:w.pos]
}

// Len returns the number of written bytes.
func (w *FixedWriter) Len() int {
	return w.pos
}

// Available returns how many more bytes fit.
func (w *FixedWriter) Available() int {
	return len(w.buf) - w.pos
}

// Reset discards the written bytes; the capacity is kept.
func (w *FixedWriter) Reset() {
	w.pos = 0
}

// CountingWriter forwards to another Writer and counts the bytes written.
// A nil target only counts.
type CountingWriter struct {
	target Writer
	count  uint64
}

// NewCountingWriter wraps target.
func NewCountingWriter(target Writer) *CountingWriter {
	return &CountingWriter{target: target}
}

// WriteByte implements Writer.
func (w *CountingWriter) WriteByte(c byte) error {
	if w.target != nil {
		if err := w.target.WriteByte(c); err != nil {
			return err
		}
	}
	w.count++
	return nil
}

// WriteAll implements Writer.
func (w *CountingWriter) WriteAll(p []byte) error {
	if w.target != nil {
		if err := w.target.WriteAll(p); err != nil {
			return err
		}
	}
	w.count += uint64(len(p))
	return nil
}

// Count returns the number of bytes written so far.
func (w *CountingWriter) Count() uint64 {
	return w.count
}
