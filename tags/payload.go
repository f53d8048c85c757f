package tags

import "github.com/anirudhraja/iltags/wire"

// Payload is the value part of a tag, independent of its identifier.
// Implement it to define a tag kind without writing the Tag boilerplate.
type Payload interface {
	ValueSize() uint64
	SerializeValue(w wire.Writer) error
	DeserializeValue(d Decoder, valueSize uint64, r wire.Reader) error
}

// PayloadTag binds a Payload to an identifier. New payloads are decoded
// into a fresh value from the constructor, so a failed decode leaves the
// current one untouched.
type PayloadTag[P Payload] struct {
	Base
	value      P
	newPayload func() P
}

// NewPayloadTag returns a populated tag holding value.
func NewPayloadTag[P Payload](id uint64, value P, newPayload func() P) *PayloadTag[P] {
	t := &PayloadTag[P]{Base: NewBase(id), newPayload: newPayload}
	t.Set(value)
	return t
}

// PayloadCreator returns a Creator for tags holding payloads built by
// newPayload.
func PayloadCreator[P Payload](newPayload func() P) Creator {
	return func(id uint64) Tag {
		return &PayloadTag[P]{Base: NewBase(id), newPayload: newPayload}
	}
}

// Value returns the payload.
func (t *PayloadTag[P]) Value() P {
	return t.value
}

// Set replaces the payload.
func (t *PayloadTag[P]) Set(value P) {
	t.value = value
	t.MarkPopulated()
}

// ValueSize implements Tag.
func (t *PayloadTag[P]) ValueSize() uint64 {
	return t.value.ValueSize()
}

// SerializeValue implements Tag.
func (t *PayloadTag[P]) SerializeValue(w wire.Writer) error {
	return t.value.SerializeValue(w)
}

// DeserializeValue implements Tag.
func (t *PayloadTag[P]) DeserializeValue(d Decoder, valueSize uint64, r wire.Reader) error {
	value := t.newPayload()
	if err := value.DeserializeValue(d, valueSize, r); err != nil {
		return err
	}
	t.Set(value)
	return nil
}
