package wire

import (
	"fmt"
	"unicode/utf8"
)

// readChunk bounds each allocation when the reader cannot tell how much
// data is left, so a forged length cannot force a huge allocation up front.
const readChunk = 64 << 10

// ReadBytes reads exactly n bytes into a new slice.
func ReadBytes(r Reader, n uint64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	left, known, err := Remaining(r)
	if err != nil {
		return nil, err
	}
	if known {
		if n > left {
			return nil, ErrUnexpectedEnd
		}
		data := make([]byte, n)
		if err := r.ReadFull(data); err != nil {
			return nil, err
		}
		return data, nil
	}
	if n > uint64(maxInt) {
		return nil, fmt.Errorf("%w: %d bytes", ErrValueOverflow, n)
	}
	data := make([]byte, 0, min(n, readChunk))
	for rest := n; rest > 0; {
		chunk := min(rest, readChunk)
		start := len(data)
		data = append(data, make([]byte, chunk)...)
		if err := r.ReadFull(data[start:]); err != nil {
			return nil, err
		}
		rest -= chunk
	}
	return data, nil
}

// WriteBytes writes p as is.
func WriteBytes(w Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	return w.WriteAll(p)
}

// ReadString reads n bytes holding UTF-8 text.
func ReadString(r Reader, n uint64) (string, error) {
	data, err := ReadBytes(r, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", Corrupted("invalid UTF-8 in %d byte string", n)
	}
	return string(data), nil
}

// WriteString writes the bytes of s.
func WriteString(w Writer, s string) error {
	if s == "" {
		return nil
	}
	return w.WriteAll([]byte(s))
}

const maxInt = int(^uint(0) >> 1)
