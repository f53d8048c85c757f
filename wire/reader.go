package wire

// BufferReader reads from an in-memory byte slice.
type BufferReader struct {
	buf []byte
	pos int
}

// NewBufferReader creates a reader over data. The slice is not copied.
func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{
		buf: data,
		pos: 0,
	}
}

// ReadByte implements Reader.
func (r *BufferReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrUnexpectedEnd
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadFull implements Reader.
func (r *BufferReader) ReadFull(p []byte) error {
	if len(p) > len(r.buf)-r.pos {
		return ErrUnexpectedEnd
	}
	copy(p, r.buf[r.pos:])
	r.pos += len(p)
	return nil
}

// Skip implements Reader.
func (r *BufferReader) Skip(n uint64) error {
	if n > r.Remaining() {
		return ErrUnexpectedEnd
	}
	r.pos += int(n)
	return nil
}

// Remaining returns the number of unread bytes.
func (r *BufferReader) Remaining() uint64 {
	return uint64(len(r.buf) - r.pos)
}

// Offset returns the number of bytes consumed so far.
func (r *BufferReader) Offset() int {
	return r.pos
}

// Next returns the next n bytes without copying them. The returned slice
// shares the underlying buffer.
func (r *BufferReader) Next(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.pos {
		return nil, ErrUnexpectedEnd
	}
	data := r.buf[r.pos : r.pos+n]
	r.pos += n
	return data, nil
}

// Reset rewinds the reader over new data.
func (r *BufferReader) Reset(data []byte) {
	r.buf = data
	r.pos = 0
}
