package wire

// LimitedReader wraps another Reader and lets at most a fixed number of
// bytes be read through it. Limits are checked before touching the source,
// so a refused read consumes nothing from it.
type LimitedReader struct {
	source    Reader
	available uint64
}

// NewLimitedReader creates a reader that exposes at most available bytes
// of source.
func NewLimitedReader(source Reader, available uint64) *LimitedReader {
	return &LimitedReader{
		source:    source,
		available: available,
	}
}

func (r *LimitedReader) canRead(n uint64) error {
	if n > r.available {
		return ErrUnexpectedEnd
	}
	return nil
}

// ReadByte implements Reader.
func (r *LimitedReader) ReadByte() (byte, error) {
	if err := r.canRead(1); err != nil {
		return 0, err
	}
	b, err := r.source.ReadByte()
	if err != nil {
		return 0, err
	}
	r.available--
	return b, nil
}

// ReadFull implements Reader.
func (r *LimitedReader) ReadFull(p []byte) error {
	if err := r.canRead(uint64(len(p))); err != nil {
		return err
	}
	if err := r.source.ReadFull(p); err != nil {
		return err
	}
	r.available -= uint64(len(p))
	return nil
}

// Skip implements Reader.
func (r *LimitedReader) Skip(n uint64) error {
	if err := r.canRead(n); err != nil {
		return err
	}
	if err := r.source.Skip(n); err != nil {
		return err
	}
	r.available -= n
	return nil
}

// Available returns what is left of the limit. The source may hold less;
// use Remaining to find out.
func (r *LimitedReader) Available() uint64 {
	return r.available
}

// Empty reports whether the limit has been reached.
func (r *LimitedReader) Empty() bool {
	return r.available == 0
}

// Drain skips whatever is left of the limit.
func (r *LimitedReader) Drain() error {
	return r.Skip(r.available)
}
