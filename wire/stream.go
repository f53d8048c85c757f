package wire

import (
	"bufio"
	"io"
	"math"
)

// StreamReader adapts an io.Reader. Reads are buffered, so the reader
// may pull more bytes from the source than it has handed out. A read that
// fails halfway may still have consumed bytes from the source.
type StreamReader struct {
	br     *bufio.Reader
	offset uint64
}

// NewStreamReader wraps r. The caller keeps ownership of r.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{br: bufio.NewReader(r)}
}

// ReadByte implements Reader.
func (r *StreamReader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		return 0, wrapRead("read", err)
	}
	r.offset++
	return b, nil
}

// ReadFull implements Reader.
func (r *StreamReader) ReadFull(p []byte) error {
	n, err := io.ReadFull(r.br, p)
	r.offset += uint64(n)
	return wrapRead("read", err)
}

// Skip implements Reader.
func (r *StreamReader) Skip(n uint64) error {
	for n > 0 {
		chunk := min(n, math.MaxInt32)
		skipped, err := r.br.Discard(int(chunk))
		r.offset += uint64(skipped)
		if err != nil {
			return wrapRead("read", err)
		}
		n -= chunk
	}
	return nil
}

// Offset returns the number of bytes consumed so far.
func (r *StreamReader) Offset() uint64 {
	return r.offset
}

// AtEnd reports whether the source has no more data. It fails only on
// errors other than io.EOF.
func (r *StreamReader) AtEnd() (bool, error) {
	_, err := r.br.Peek(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, wrapRead("read", err)
	}
	return false, nil
}

// SeekReader adapts an io.ReadSeeker such as an *os.File. Skips are done
// by seeking and are validated against the end of the stream, so skipping
// past the end fails with ErrUnexpectedEnd and leaves the position alone.
type SeekReader struct {
	src io.ReadSeeker
	StreamReader
}

// NewSeekReader wraps rs. The caller keeps ownership of rs.
func NewSeekReader(rs io.ReadSeeker) *SeekReader {
	return &SeekReader{
		src:          rs,
		StreamReader: StreamReader{br: bufio.NewReader(rs)},
	}
}

// bounds returns the underlying position and the end of the source.
func (r *SeekReader) bounds() (cur, end int64, err error) {
	if cur, err = r.src.Seek(0, io.SeekCurrent); err != nil {
		return 0, 0, wrapRead("seek", err)
	}
	if end, err = r.src.Seek(0, io.SeekEnd); err != nil {
		return 0, 0, wrapRead("seek", err)
	}
	if _, err = r.src.Seek(cur, io.SeekStart); err != nil {
		return 0, 0, wrapRead("seek", err)
	}
	return cur, end, nil
}

// Skip implements Reader.
func (r *SeekReader) Skip(n uint64) error {
	buffered := uint64(r.br.Buffered())
	if n <= buffered {
		return r.StreamReader.Skip(n)
	}
	cur, end, err := r.bounds()
	if err != nil {
		return err
	}
	rest := n - buffered
	if rest > uint64(end-cur) {
		return ErrUnexpectedEnd
	}
	if _, err := r.src.Seek(cur+int64(rest), io.SeekStart); err != nil {
		return wrapRead("seek", err)
	}
	r.br.Reset(r.src)
	r.offset += n
	return nil
}

// Remaining returns the number of unread bytes.
func (r *SeekReader) Remaining() (uint64, error) {
	cur, end, err := r.bounds()
	if err != nil {
		return 0, err
	}
	if end < cur {
		return uint64(r.br.Buffered()), nil
	}
	return uint64(end-cur) + uint64(r.br.Buffered()), nil
}

// StreamWriter adapts an io.Writer through a buffer. Call Flush once done;
// nothing is guaranteed to reach the destination before that.
type StreamWriter struct {
	bw *bufio.Writer
}

// NewStreamWriter wraps w. The caller keeps ownership of w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{bw: bufio.NewWriter(w)}
}

// WriteByte implements Writer.
func (w *StreamWriter) WriteByte(c byte) error {
	return wrapWrite("write", w.bw.WriteByte(c))
}

// WriteAll implements Writer.
func (w *StreamWriter) WriteAll(p []byte) error {
	_, err := w.bw.Write(p)
	return wrapWrite("write", err)
}

// Flush implements Flusher.
func (w *StreamWriter) Flush() error {
	return wrapWrite("flush", w.bw.Flush())
}

// NewReader picks the best adapter for src: a SeekReader when src can
// actually seek, a StreamReader otherwise. Pipes and terminals are
// *os.File values that fail to seek, so the check is made on src itself.
func NewReader(src io.Reader) Reader {
	if rs, ok := src.(io.ReadSeeker); ok {
		if _, err := rs.Seek(0, io.SeekCurrent); err == nil {
			return NewSeekReader(rs)
		}
	}
	return NewStreamReader(src)
}
