// Package ilint implements the ILInt variable length integer encoding.
//
// Values below Base are stored as a single byte. Larger values are stored
// as a header byte 0xF8+(n-1) followed by the n big-endian bytes of
// value-Base, so every uint64 fits in at most MaxSize bytes.
package ilint

import (
	"errors"
	"io"
)

const (
	// Base is the smallest value that needs a multi-byte encoding.
	Base = 0xF8

	// MaxSize is the largest encoded size of an ILInt.
	MaxSize = 9

	// maxBody is the largest body a 9-byte ILInt may carry without
	// wrapping past 2^64-1 once Base is added back.
	maxBody = 0xFFFF_FFFF_FFFF_FF07
)

// ErrOverflow is returned when an encoded value does not fit in 64 bits.
var ErrOverflow = errors.New("ilint: value overflow")

// EncodedSize returns the number of bytes Append would produce for v.
func EncodedSize(v uint64) int {
	switch {
	case v < Base:
		return 1
	case v <= 0xFF+Base:
		return 2
	case v <= 0xFFFF+Base:
		return 3
	case v <= 0xFF_FFFF+Base:
		return 4
	case v <= 0xFFFF_FFFF+Base:
		return 5
	case v <= 0xFF_FFFF_FFFF+Base:
		return 6
	case v <= 0xFFFF_FFFF_FFFF+Base:
		return 7
	case v <= 0xFF_FFFF_FFFF_FFFF+Base:
		return 8
	default:
		return 9
	}
}

// DecodedSize returns the total size of an ILInt, header included, given
// its first byte.
func DecodedSize(header byte) int {
	if header < Base {
		return 1
	}
	return int(header-Base) + 2
}

// Append appends the encoding of v to dst and returns the extended slice.
func Append(dst []byte, v uint64) []byte {
	size := EncodedSize(v)
	if size == 1 {
		return append(dst, byte(v))
	}
	dst = append(dst, byte(Base+size-2))
	body := v - Base
	for shift := 8 * (size - 2); shift >= 0; shift -= 8 {
		dst = append(dst, byte(body>>uint(shift)))
	}
	return dst
}

// Encode returns the encoding of v in a new slice.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, EncodedSize(v)), v)
}

// decodeBody rebuilds a multi-byte value from the bytes after the header.
func decodeBody(body []byte) (uint64, error) {
	var v uint64
	for _, b := range body {
		v = v<<8 | uint64(b)
	}
	if v > maxBody {
		return 0, ErrOverflow
	}
	return v + Base, nil
}

// Decode decodes the ILInt at the start of b. It returns the value and the
// number of bytes consumed. A truncated encoding fails with
// io.ErrUnexpectedEOF.
func Decode(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	size := DecodedSize(b[0])
	if size == 1 {
		return uint64(b[0]), 1, nil
	}
	if len(b) < size {
		return 0, 0, io.ErrUnexpectedEOF
	}
	v, err := decodeBody(b[1:size])
	if err != nil {
		return 0, 0, err
	}
	return v, size, nil
}

// Read decodes an ILInt from r. Errors from r are returned as is, except
// that io.EOF after the header becomes io.ErrUnexpectedEOF.
func Read(r io.ByteReader) (uint64, error) {
	header, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	size := DecodedSize(header)
	if size == 1 {
		return uint64(header), nil
	}
	var body [MaxSize - 1]byte
	for i := 0; i < size-1; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		body[i] = b
	}
	return decodeBody(body[:size-1])
}

// SIGNED VALUES

// EncodeSign maps a signed value onto the unsigned ILInt domain using
// ZigZag encoding: 0, -1, 1, -2, 2... become 0, 1, 2, 3, 4...
func EncodeSign(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// DecodeSign reverses EncodeSign.
func DecodeSign(u uint64) int64 {
	return int64((u >> 1) ^ uint64(-int64(u&1)))
}

// SignedEncodedSize returns the number of bytes AppendSigned would produce.
func SignedEncodedSize(v int64) int {
	return EncodedSize(EncodeSign(v))
}

// AppendSigned appends the signed ILInt encoding of v to dst.
func AppendSigned(dst []byte, v int64) []byte {
	return Append(dst, EncodeSign(v))
}

// EncodeSigned returns the signed ILInt encoding of v in a new slice.
func EncodeSigned(v int64) []byte {
	return Encode(EncodeSign(v))
}

// DecodeSigned decodes a signed ILInt at the start of b.
func DecodeSigned(b []byte) (int64, int, error) {
	u, n, err := Decode(b)
	if err != nil {
		return 0, 0, err
	}
	return DecodeSign(u), n, nil
}

// ReadSigned decodes a signed ILInt from r.
func ReadSigned(r io.ByteReader) (int64, error) {
	u, err := Read(r)
	if err != nil {
		return 0, err
	}
	return DecodeSign(u), nil
}
