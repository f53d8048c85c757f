package wire

// ===== BYTE STREAM CAPABILITIES =====

// Reader is a sequential source of bytes. Every operation is all or
// nothing: a read that cannot be fully satisfied fails with
// ErrUnexpectedEnd and does not hand out partial data.
type Reader interface {
	// ReadByte reads a single byte.
	ReadByte() (byte, error)
	// ReadFull fills p completely.
	ReadFull(p []byte) error
	// Skip advances n bytes without materializing them.
	Skip(n uint64) error
}

// Writer is a sequential sink of bytes. WriteAll either accepts all of p
// or fails; it never truncates silently.
type Writer interface {
	// WriteByte writes a single byte.
	WriteByte(c byte) error
	// WriteAll writes all of p.
	WriteAll(p []byte) error
}

// Sized is implemented by readers that know how many bytes are left.
// Helpers use it to refuse allocations driven by lengths read from the wire.
type Sized interface {
	Remaining() uint64
}

// Remaining reports how many bytes r has left. known is false when r cannot
// tell, in which case callers must not size allocations from the wire.
// Errors come from readers that have to ask their source, such as a
// SeekReader.
func Remaining(r Reader) (n uint64, known bool, err error) {
	switch r := r.(type) {
	case *LimitedReader:
		n, known, err = Remaining(r.source)
		if err != nil || !known {
			return 0, false, err
		}
		return min(n, r.available), true, nil
	case *SeekReader:
		n, err = r.Remaining()
		if err != nil {
			return 0, false, err
		}
		return n, true, nil
	case Sized:
		return r.Remaining(), true, nil
	}
	return 0, false, nil
}

// Flusher is implemented by writers that buffer data.
type Flusher interface {
	Flush() error
}

// Flush flushes w if it buffers data and does nothing otherwise.
func Flush(w Writer) error {
	if f, ok := w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
