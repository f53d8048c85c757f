package standard

import (
	"math/big"

	"github.com/anirudhraja/iltags/ilint"
	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/wire"
)

// BytesTag holds a byte array.
type BytesTag struct {
	tags.Base
	value []byte
}

// NewBytesTag returns a populated bytes tag. v is copied.
func NewBytesTag(v []byte) *BytesTag {
	t := &BytesTag{Base: tags.NewBase(BytesTagID)}
	t.Set(v)
	return t
}

func bytesCreator(id uint64) tags.Tag {
	return &BytesTag{Base: tags.NewBase(id)}
}

// Value returns the bytes. The slice belongs to the tag.
func (t *BytesTag) Value() []byte {
	return t.value
}

// Set replaces the bytes with a copy of v.
func (t *BytesTag) Set(v []byte) {
	t.value = append([]byte{}, v...)
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *BytesTag) ValueSize() uint64 {
	return uint64(len(t.value))
}

// SerializeValue implements tags.Tag.
func (t *BytesTag) SerializeValue(w wire.Writer) error {
	return wire.WriteBytes(w, t.value)
}

// DeserializeValue implements tags.Tag.
func (t *BytesTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	v, err := wire.ReadBytes(r, valueSize)
	if err != nil {
		return err
	}
	t.value = v
	t.MarkPopulated()
	return nil
}

// StringTag holds UTF-8 text.
type StringTag struct {
	tags.Base
	value string
}

// NewStringTag returns a populated string tag.
func NewStringTag(v string) *StringTag {
	t := &StringTag{Base: tags.NewBase(StringTagID)}
	t.Set(v)
	return t
}

func stringCreator(id uint64) tags.Tag {
	return &StringTag{Base: tags.NewBase(id)}
}

// Value returns the text.
func (t *StringTag) Value() string {
	return t.value
}

// Set replaces the text.
func (t *StringTag) Set(v string) {
	t.value = v
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *StringTag) ValueSize() uint64 {
	return uint64(len(t.value))
}

// SerializeValue implements tags.Tag.
func (t *StringTag) SerializeValue(w wire.Writer) error {
	return wire.WriteString(w, t.value)
}

// DeserializeValue implements tags.Tag.
func (t *StringTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	v, err := wire.ReadString(r, valueSize)
	if err != nil {
		return err
	}
	t.Set(v)
	return nil
}

// stringTagSize is the encoded size of a string tag holding s.
func stringTagSize(s string) uint64 {
	n := uint64(len(s))
	return tags.HeaderSize(StringTagID, n) + n
}

// writeStringTag writes s as a complete string tag.
func writeStringTag(w wire.Writer, s string) error {
	if err := wire.WriteILInt(w, StringTagID); err != nil {
		return err
	}
	if err := wire.WriteILInt(w, uint64(len(s))); err != nil {
		return err
	}
	return wire.WriteString(w, s)
}

// readStringTag reads a complete string tag and returns its text. Any
// other identifier is ErrCorruptedData.
func readStringTag(r wire.Reader) (string, error) {
	id, err := wire.ReadILInt(r)
	if err != nil {
		return "", err
	}
	if id != StringTagID {
		return "", wire.Corrupted("expected a string tag, got tag %d", id)
	}
	n, err := wire.ReadILInt(r)
	if err != nil {
		return "", err
	}
	return wire.ReadString(r, n)
}

// BigIntTag holds an arbitrary precision integer as big-endian two's
// complement bytes.
type BigIntTag struct {
	tags.Base
	value   *big.Int
	encoded []byte
}

// NewBigIntTag returns a populated big integer tag. v is copied.
func NewBigIntTag(v *big.Int) *BigIntTag {
	t := &BigIntTag{Base: tags.NewBase(BigIntTagID)}
	t.Set(v)
	return t
}

func bigIntCreator(id uint64) tags.Tag {
	return &BigIntTag{Base: tags.NewBase(id)}
}

// Value returns a copy of the integer.
func (t *BigIntTag) Value() *big.Int {
	return new(big.Int).Set(orZero(t.value))
}

// Set replaces the integer. A nil v stores zero.
func (t *BigIntTag) Set(v *big.Int) {
	v = orZero(v)
	t.value = new(big.Int).Set(v)
	t.encoded = twosComplement(v)
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *BigIntTag) ValueSize() uint64 {
	return uint64(len(t.encoded))
}

// SerializeValue implements tags.Tag.
func (t *BigIntTag) SerializeValue(w wire.Writer) error {
	return wire.WriteBytes(w, t.encoded)
}

// DeserializeValue implements tags.Tag.
func (t *BigIntTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	if valueSize == 0 {
		return wire.Corrupted("empty big integer")
	}
	b, err := wire.ReadBytes(r, valueSize)
	if err != nil {
		return err
	}
	t.value = fromTwosComplement(b)
	t.encoded = b
	t.MarkPopulated()
	return nil
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}

// twosComplement returns the shortest big-endian two's complement form
// of x. Zero is a single 0x00 byte.
func twosComplement(x *big.Int) []byte {
	if x.Sign() >= 0 {
		b := x.Bytes()
		if len(b) == 0 || b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// -x-1 has the same bits as x with the sign flipped.
	m := new(big.Int).Neg(x)
	m.Sub(m, big.NewInt(1))
	n := m.BitLen()/8 + 1
	y := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	y.Add(y, x)
	return y.FillBytes(make([]byte, n))
}

func fromTwosComplement(b []byte) *big.Int {
	x := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x
}

// BigDecTag holds an arbitrary precision decimal Unscaled × 10^-Scale.
// The payload is the scale as a big-endian int32 followed by the unscaled
// value in two's complement.
type BigDecTag struct {
	tags.Base
	scale    int32
	unscaled *big.Int
	encoded  []byte
}

// NewBigDecTag returns a populated big decimal tag.
func NewBigDecTag(unscaled *big.Int, scale int32) *BigDecTag {
	t := &BigDecTag{Base: tags.NewBase(BigDecTagID)}
	t.Set(unscaled, scale)
	return t
}

func bigDecCreator(id uint64) tags.Tag {
	return &BigDecTag{Base: tags.NewBase(id)}
}

// Unscaled returns a copy of the unscaled value.
func (t *BigDecTag) Unscaled() *big.Int {
	return new(big.Int).Set(orZero(t.unscaled))
}

// Scale returns the number of decimal places.
func (t *BigDecTag) Scale() int32 {
	return t.scale
}

// Set replaces the value. A nil unscaled stores zero.
func (t *BigDecTag) Set(unscaled *big.Int, scale int32) {
	unscaled = orZero(unscaled)
	t.unscaled = new(big.Int).Set(unscaled)
	t.scale = scale
	t.encoded = twosComplement(unscaled)
	t.MarkPopulated()
}

// Rat returns the value as a fraction.
func (t *BigDecTag) Rat() *big.Rat {
	r := new(big.Rat).SetInt(orZero(t.unscaled))
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs32(t.scale))), nil)
	p := new(big.Rat).SetInt(pow)
	if t.scale >= 0 {
		return r.Quo(r, p)
	}
	return r.Mul(r, p)
}

func abs32(v int32) int64 {
	if v < 0 {
		return -int64(v)
	}
	return int64(v)
}

// ValueSize implements tags.Tag.
func (t *BigDecTag) ValueSize() uint64 {
	return 4 + uint64(len(t.encoded))
}

// SerializeValue implements tags.Tag.
func (t *BigDecTag) SerializeValue(w wire.Writer) error {
	if err := wire.WriteInt32(w, t.scale); err != nil {
		return err
	}
	return wire.WriteBytes(w, t.encoded)
}

// DeserializeValue implements tags.Tag.
func (t *BigDecTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	if valueSize < 5 {
		return wire.Corrupted("big decimal of %d bytes", valueSize)
	}
	scale, err := wire.ReadInt32(r)
	if err != nil {
		return err
	}
	b, err := wire.ReadBytes(r, valueSize-4)
	if err != nil {
		return err
	}
	t.scale = scale
	t.unscaled = fromTwosComplement(b)
	t.encoded = b
	t.MarkPopulated()
	return nil
}

// Range is the payload of range tags: Count consecutive values from Start.
type Range struct {
	Start uint64
	Count uint16
}

// RangeTag holds a Range.
type RangeTag = tags.PayloadTag[*Range]

func newRange() *Range { return &Range{} }

// NewRangeTag returns a populated range tag.
func NewRangeTag(start uint64, count uint16) *RangeTag {
	return tags.NewPayloadTag(RangeTagID, &Range{Start: start, Count: count}, newRange)
}

// ValueSize implements tags.Payload.
func (p *Range) ValueSize() uint64 {
	return uint64(ilint.EncodedSize(p.Start)) + 2
}

// SerializeValue implements tags.Payload.
func (p *Range) SerializeValue(w wire.Writer) error {
	if err := wire.WriteILInt(w, p.Start); err != nil {
		return err
	}
	return wire.WriteUint16(w, p.Count)
}

// DeserializeValue implements tags.Payload.
func (p *Range) DeserializeValue(_ tags.Decoder, _ uint64, r wire.Reader) error {
	start, err := wire.ReadILInt(r)
	if err != nil {
		return err
	}
	count, err := wire.ReadUint16(r)
	if err != nil {
		return err
	}
	p.Start, p.Count = start, count
	return nil
}

// Version is the payload of version tags.
type Version struct {
	Major, Minor, Revision, Build int32
}

// VersionTag holds a Version.
type VersionTag = tags.PayloadTag[*Version]

func newVersion() *Version { return &Version{} }

// NewVersionTag returns a populated version tag.
func NewVersionTag(major, minor, revision, build int32) *VersionTag {
	v := &Version{Major: major, Minor: minor, Revision: revision, Build: build}
	return tags.NewPayloadTag(VersionTagID, v, newVersion)
}

// ValueSize implements tags.Payload.
func (p *Version) ValueSize() uint64 {
	return 16
}

// SerializeValue implements tags.Payload.
func (p *Version) SerializeValue(w wire.Writer) error {
	for _, v := range [...]int32{p.Major, p.Minor, p.Revision, p.Build} {
		if err := wire.WriteInt32(w, v); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeValue implements tags.Payload.
func (p *Version) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	if valueSize != 16 {
		return wire.Corrupted("version of %d bytes", valueSize)
	}
	var parts [4]int32
	for i := range parts {
		v, err := wire.ReadInt32(r)
		if err != nil {
			return err
		}
		parts[i] = v
	}
	p.Major, p.Minor, p.Revision, p.Build = parts[0], parts[1], parts[2], parts[3]
	return nil
}
