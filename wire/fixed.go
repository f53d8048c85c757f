package wire

import (
	"encoding/binary"
	"math"
)

// Fixed-width values are big-endian on the wire.

// ReadUint8 reads one byte.
func ReadUint8(r Reader) (uint8, error) {
	return r.ReadByte()
}

// ReadUint16 reads a big-endian uint16.
func ReadUint16(r Reader) (uint16, error) {
	var buf [2]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadUint32 reads a big-endian uint32.
func ReadUint32(r Reader) (uint32, error) {
	var buf [4]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadUint64 reads a big-endian uint64.
func ReadUint64(r Reader) (uint64, error) {
	var buf [8]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadInt8 reads a two's complement int8.
func ReadInt8(r Reader) (int8, error) {
	v, err := ReadUint8(r)
	return int8(v), err
}

// ReadInt16 reads a big-endian two's complement int16.
func ReadInt16(r Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

// ReadInt32 reads a big-endian two's complement int32.
func ReadInt32(r Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

// ReadInt64 reads a big-endian two's complement int64.
func ReadInt64(r Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 binary32 value.
func ReadFloat32(r Reader) (float32, error) {
	v, err := ReadUint32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE 754 binary64 value.
func ReadFloat64(r Reader) (float64, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteUint8 writes one byte.
func WriteUint8(w Writer, v uint8) error {
	return w.WriteByte(v)
}

// WriteUint16 writes a big-endian uint16.
func WriteUint16(w Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteUint32 writes a big-endian uint32.
func WriteUint32(w Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteUint64 writes a big-endian uint64.
func WriteUint64(w Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteInt8 writes a two's complement int8.
func WriteInt8(w Writer, v int8) error {
	return WriteUint8(w, uint8(v))
}

// WriteInt16 writes a big-endian two's complement int16.
func WriteInt16(w Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

// WriteInt32 writes a big-endian two's complement int32.
func WriteInt32(w Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

// WriteInt64 writes a big-endian two's complement int64.
func WriteInt64(w Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// WriteFloat32 writes an IEEE 754 binary32 value.
func WriteFloat32(w Writer, v float32) error {
	return WriteUint32(w, math.Float32bits(v))
}

// WriteFloat64 writes an IEEE 754 binary64 value.
func WriteFloat64(w Writer, v float64) error {
	return WriteUint64(w, math.Float64bits(v))
}
