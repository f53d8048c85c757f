package standard

import (
	"github.com/anirudhraja/iltags/ilint"
	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/wire"
)

// codec reads and writes a fixed-size value.
type codec[T any] struct {
	size  uint64
	read  func(wire.Reader) (T, error)
	write func(wire.Writer, T) error
}

// ValueTag holds a fixed-size value: the implicit numeric tags. Registered
// under an explicit identifier, its length field must match the value size.
type ValueTag[T any] struct {
	tags.Base
	value T
	codec *codec[T]
}

// Value returns the value.
func (t *ValueTag[T]) Value() T {
	return t.value
}

// Set replaces the value.
func (t *ValueTag[T]) Set(v T) {
	t.value = v
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *ValueTag[T]) ValueSize() uint64 {
	return t.codec.size
}

// SerializeValue implements tags.Tag.
func (t *ValueTag[T]) SerializeValue(w wire.Writer) error {
	return t.codec.write(w, t.value)
}

// DeserializeValue implements tags.Tag.
func (t *ValueTag[T]) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	if valueSize != t.codec.size {
		return wire.Corrupted("%d byte value for a %d byte tag", valueSize, t.codec.size)
	}
	v, err := t.codec.read(r)
	if err != nil {
		return err
	}
	t.Set(v)
	return nil
}

func newValueTag[T any](id uint64, c *codec[T], v T) *ValueTag[T] {
	t := &ValueTag[T]{Base: tags.NewBase(id), codec: c}
	t.Set(v)
	return t
}

func valueCreator[T any](c *codec[T]) tags.Creator {
	return func(id uint64) tags.Tag {
		return &ValueTag[T]{Base: tags.NewBase(id), codec: c}
	}
}

var (
	nullCodec = &codec[struct{}]{
		size:  0,
		read:  func(wire.Reader) (struct{}, error) { return struct{}{}, nil },
		write: func(wire.Writer, struct{}) error { return nil },
	}
	boolCodec = &codec[bool]{
		size: 1,
		read: func(r wire.Reader) (bool, error) {
			b, err := r.ReadByte()
			if err != nil {
				return false, err
			}
			switch b {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
			return false, wire.Corrupted("bool value %#x", b)
		},
		write: func(w wire.Writer, v bool) error {
			if v {
				return w.WriteByte(1)
			}
			return w.WriteByte(0)
		},
	}

	int8Codec    = &codec[int8]{size: 1, read: wire.ReadInt8, write: wire.WriteInt8}
	uint8Codec   = &codec[uint8]{size: 1, read: wire.ReadUint8, write: wire.WriteUint8}
	int16Codec   = &codec[int16]{size: 2, read: wire.ReadInt16, write: wire.WriteInt16}
	uint16Codec  = &codec[uint16]{size: 2, read: wire.ReadUint16, write: wire.WriteUint16}
	int32Codec   = &codec[int32]{size: 4, read: wire.ReadInt32, write: wire.WriteInt32}
	uint32Codec  = &codec[uint32]{size: 4, read: wire.ReadUint32, write: wire.WriteUint32}
	int64Codec   = &codec[int64]{size: 8, read: wire.ReadInt64, write: wire.WriteInt64}
	uint64Codec  = &codec[uint64]{size: 8, read: wire.ReadUint64, write: wire.WriteUint64}
	float32Codec = &codec[float32]{size: 4, read: wire.ReadFloat32, write: wire.WriteFloat32}
	float64Codec = &codec[float64]{size: 8, read: wire.ReadFloat64, write: wire.WriteFloat64}

	binary128Codec = &codec[[16]byte]{
		size: 16,
		read: func(r wire.Reader) ([16]byte, error) {
			var v [16]byte
			err := r.ReadFull(v[:])
			return v, err
		},
		write: func(w wire.Writer, v [16]byte) error { return w.WriteAll(v[:]) },
	}
)

// Implicit tag kinds.
type (
	NullTag      = ValueTag[struct{}]
	BoolTag      = ValueTag[bool]
	Int8Tag      = ValueTag[int8]
	Uint8Tag     = ValueTag[uint8]
	Int16Tag     = ValueTag[int16]
	Uint16Tag    = ValueTag[uint16]
	Int32Tag     = ValueTag[int32]
	Uint32Tag    = ValueTag[uint32]
	Int64Tag     = ValueTag[int64]
	Uint64Tag    = ValueTag[uint64]
	Binary32Tag  = ValueTag[float32]
	Binary64Tag  = ValueTag[float64]
	Binary128Tag = ValueTag[[16]byte]
)

// Constructors for the implicit tags.
func NewNullTag() *NullTag             { return newValueTag(NullTagID, nullCodec, struct{}{}) }
func NewBoolTag(v bool) *BoolTag       { return newValueTag(BoolTagID, boolCodec, v) }
func NewInt8Tag(v int8) *Int8Tag       { return newValueTag(Int8TagID, int8Codec, v) }
func NewUint8Tag(v uint8) *Uint8Tag    { return newValueTag(Uint8TagID, uint8Codec, v) }
func NewInt16Tag(v int16) *Int16Tag    { return newValueTag(Int16TagID, int16Codec, v) }
func NewUint16Tag(v uint16) *Uint16Tag { return newValueTag(Uint16TagID, uint16Codec, v) }
func NewInt32Tag(v int32) *Int32Tag    { return newValueTag(Int32TagID, int32Codec, v) }
func NewUint32Tag(v uint32) *Uint32Tag { return newValueTag(Uint32TagID, uint32Codec, v) }
func NewInt64Tag(v int64) *Int64Tag    { return newValueTag(Int64TagID, int64Codec, v) }
func NewUint64Tag(v uint64) *Uint64Tag { return newValueTag(Uint64TagID, uint64Codec, v) }

func NewBinary32Tag(v float32) *Binary32Tag { return newValueTag(Binary32TagID, float32Codec, v) }
func NewBinary64Tag(v float64) *Binary64Tag { return newValueTag(Binary64TagID, float64Codec, v) }

// NewBinary128Tag takes the 16 bytes of an IEEE 754 binary128 value, most
// significant byte first.
func NewBinary128Tag(v [16]byte) *Binary128Tag {
	return newValueTag(Binary128TagID, binary128Codec, v)
}

// ILIntTag holds an unsigned value encoded as an ILInt. Its payload
// delimits itself, so the tag takes 2 to 10 bytes.
type ILIntTag struct {
	tags.Base
	value uint64
}

// NewILIntTag returns a populated ILInt tag.
func NewILIntTag(v uint64) *ILIntTag {
	t := &ILIntTag{Base: tags.NewBase(ILIntTagID)}
	t.Set(v)
	return t
}

// Value returns the value.
func (t *ILIntTag) Value() uint64 {
	return t.value
}

// Set replaces the value.
func (t *ILIntTag) Set(v uint64) {
	t.value = v
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *ILIntTag) ValueSize() uint64 {
	return uint64(ilint.EncodedSize(t.value))
}

// SerializeValue implements tags.Tag.
func (t *ILIntTag) SerializeValue(w wire.Writer) error {
	return wire.WriteILInt(w, t.value)
}

// DeserializeValue implements tags.Tag.
func (t *ILIntTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	v, err := wire.ReadILIntValue(r, valueSize)
	if err != nil {
		return err
	}
	t.Set(v)
	return nil
}

func ilintCreator(id uint64) tags.Tag {
	return &ILIntTag{Base: tags.NewBase(id)}
}
