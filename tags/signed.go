package tags

import (
	"github.com/anirudhraja/iltags/ilint"
	"github.com/anirudhraja/iltags/wire"
)

// SignedILIntTagID is the standard identifier of signed ILInt tags.
const SignedILIntTagID uint64 = 14

// SignedILIntTag carries an int64 encoded as a signed ILInt. Under its
// standard identifier it is implicit and the ILInt delimits itself; under
// an explicit identifier the length field must match the ILInt size.
type SignedILIntTag struct {
	Base
	value int64
}

// NewSignedILIntTag returns a populated tag with the standard identifier.
func NewSignedILIntTag(v int64) *SignedILIntTag {
	return NewSignedILIntTagID(SignedILIntTagID, v)
}

// NewSignedILIntTagID returns a populated tag with a custom identifier.
func NewSignedILIntTagID(id uint64, v int64) *SignedILIntTag {
	t := &SignedILIntTag{Base: NewBase(id)}
	t.Set(v)
	return t
}

// SignedILIntCreator creates unpopulated signed ILInt tags.
func SignedILIntCreator(id uint64) Tag {
	return &SignedILIntTag{Base: NewBase(id)}
}

// Value returns the value.
func (t *SignedILIntTag) Value() int64 {
	return t.value
}

// Set replaces the value.
func (t *SignedILIntTag) Set(v int64) {
	t.value = v
	t.MarkPopulated()
}

// ValueSize implements Tag.
func (t *SignedILIntTag) ValueSize() uint64 {
	return uint64(ilint.SignedEncodedSize(t.value))
}

// SerializeValue implements Tag.
func (t *SignedILIntTag) SerializeValue(w wire.Writer) error {
	return wire.WriteSignedILInt(w, t.value)
}

// DeserializeValue implements Tag.
func (t *SignedILIntTag) DeserializeValue(_ Decoder, valueSize uint64, r wire.Reader) error {
	u, err := wire.ReadILIntValue(r, valueSize)
	if err != nil {
		return err
	}
	t.Set(ilint.DecodeSign(u))
	return nil
}
