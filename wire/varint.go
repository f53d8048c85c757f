package wire

import (
	"io"

	"github.com/anirudhraja/iltags/ilint"
)

// ReadILInt decodes an ILInt from r.
func ReadILInt(r Reader) (uint64, error) {
	v, err := ilint.Read(r)
	if err == io.EOF {
		// Readers outside this package may report a clean end on the header.
		return 0, ErrUnexpectedEnd
	}
	return v, err
}

// WriteILInt encodes v as an ILInt into w.
func WriteILInt(w Writer, v uint64) error {
	var buf [ilint.MaxSize]byte
	return w.WriteAll(ilint.Append(buf[:0], v))
}

// ReadSignedILInt decodes a signed ILInt from r.
func ReadSignedILInt(r Reader) (int64, error) {
	u, err := ReadILInt(r)
	if err != nil {
		return 0, err
	}
	return ilint.DecodeSign(u), nil
}

// WriteSignedILInt encodes v as a signed ILInt into w.
func WriteSignedILInt(w Writer, v int64) error {
	return WriteILInt(w, ilint.EncodeSign(v))
}

// SkipILInt skips over an ILInt without decoding it and returns its size.
func SkipILInt(r Reader) (int, error) {
	header, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	size := ilint.DecodedSize(header)
	if size > 1 {
		if err := r.Skip(uint64(size - 1)); err != nil {
			return 0, err
		}
	}
	return size, nil
}

// ReadILIntN decodes an ILInt from r and also returns its encoded size,
// which may differ from ilint.EncodedSize for non-minimal encodings.
func ReadILIntN(r Reader) (uint64, int, error) {
	var buf [ilint.MaxSize]byte
	header, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	buf[0] = header
	n := ilint.DecodedSize(header)
	if n > 1 {
		if err := r.ReadFull(buf[1:n]); err != nil {
			return 0, 0, err
		}
	}
	v, _, err := ilint.Decode(buf[:n])
	if err != nil {
		return 0, 0, err
	}
	return v, n, nil
}

// ReadILIntValue reads a value of exactly size bytes holding one ILInt.
// An ILInt whose header implies another size is ErrCorruptedData; this is
// checked before reading past the header.
func ReadILIntValue(r Reader, size uint64) (uint64, error) {
	var buf [ilint.MaxSize]byte
	header, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	n := ilint.DecodedSize(header)
	if uint64(n) != size {
		return 0, Corrupted("ILInt of %d bytes in a %d byte value", n, size)
	}
	buf[0] = header
	if err := r.ReadFull(buf[1:n]); err != nil {
		return 0, err
	}
	v, _, err := ilint.Decode(buf[:n])
	return v, err
}
