package tags

import (
	"bytes"
	"fmt"

	"github.com/anirudhraja/iltags/ilint"
	"github.com/anirudhraja/iltags/wire"
)

// RawTag holds an opaque payload under any defined identifier. For
// implicit identifiers the payload length must match the framing rule.
type RawTag struct {
	Base
	payload []byte
}

// NewRawTag returns a populated raw tag. The payload is copied.
func NewRawTag(id uint64, payload []byte) (*RawTag, error) {
	t := &RawTag{Base: NewBase(id)}
	if err := t.SetPayload(payload); err != nil {
		return nil, err
	}
	return t, nil
}

// NewEmptyRawTag returns an unpopulated raw tag, ready to be deserialized.
func NewEmptyRawTag(id uint64) *RawTag {
	return &RawTag{Base: NewBase(id)}
}

// Payload returns the payload. The slice belongs to the tag.
func (t *RawTag) Payload() []byte {
	return t.payload
}

// SetPayload replaces the payload with a copy of p.
func (t *RawTag) SetPayload(p []byte) error {
	if err := validateRaw(t.ID(), p); err != nil {
		return err
	}
	t.payload = bytes.Clone(p)
	if t.payload == nil {
		t.payload = []byte{}
	}
	t.MarkPopulated()
	return nil
}

func validateRaw(id uint64, p []byte) error {
	if err := checkValueSize(id, uint64(len(p))); err != nil {
		return fmt.Errorf("%w: raw tag %d with %d bytes", err, id, len(p))
	}
	if IsSelfDelimited(id) && ilint.DecodedSize(p[0]) != len(p) {
		return fmt.Errorf("%w: raw tag %d is not a single ILInt", ErrInconsistentSize, id)
	}
	return nil
}

// ValueSize implements Tag.
func (t *RawTag) ValueSize() uint64 {
	return uint64(len(t.payload))
}

// SerializeValue implements Tag.
func (t *RawTag) SerializeValue(w wire.Writer) error {
	return wire.WriteBytes(w, t.payload)
}

// DeserializeValue implements Tag.
func (t *RawTag) DeserializeValue(_ Decoder, valueSize uint64, r wire.Reader) error {
	payload, err := wire.ReadBytes(r, valueSize)
	if err != nil {
		return err
	}
	t.payload = payload
	t.MarkPopulated()
	return nil
}

// UnknownTag is what a lenient decoder produces for an identifier nobody
// registered. It keeps the exact payload bytes so the tag re-encodes to
// the same bytes it was read from.
type UnknownTag struct {
	RawTag
}

// NewUnknownTag returns an unpopulated unknown tag for id.
func NewUnknownTag(id uint64) *UnknownTag {
	return &UnknownTag{RawTag: RawTag{Base: NewBase(id)}}
}

// RawCreator is a Creator that stores payloads as raw bytes. Register it
// for identifiers whose payload should be kept opaque.
func RawCreator(id uint64) Tag {
	return NewEmptyRawTag(id)
}
