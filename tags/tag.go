// Package tags implements the ILTags record model: typed records made of
// an ILInt identifier, an ILInt length for explicit identifiers, and a
// payload. Decoding goes through a registry that maps identifiers to
// creators, so the set of known tag kinds stays open.
package tags

import (
	"fmt"

	"github.com/anirudhraja/iltags/wire"
)

// Tag is a single ILTags record.
//
// A tag is either populated, when built with a value or after a successful
// DeserializeValue, or unpopulated, as returned by a Creator. DeserializeValue
// must be atomic: on failure the previous value stays in place.
type Tag interface {
	// ID returns the tag identifier. It never changes.
	ID() uint64
	// ValueSize returns the number of payload bytes SerializeValue writes.
	ValueSize() uint64
	// Populated reports whether the tag holds a value.
	Populated() bool
	// SerializeValue writes exactly ValueSize bytes.
	SerializeValue(w wire.Writer) error
	// DeserializeValue reads the valueSize bytes of the payload from r. The
	// decoder is used for nested tags.
	DeserializeValue(d Decoder, valueSize uint64, r wire.Reader) error
}

// Decoder creates and decodes tags by identifier. Registry and Factory
// implement it.
type Decoder interface {
	// Create returns an unpopulated tag for id.
	Create(id uint64) (Tag, error)
	// Deserialize reads the next tag from r.
	Deserialize(r wire.Reader) (Tag, error)
	// DeserializeExpected reads the next tag from r and fails with
	// ErrUnexpectedTag if its identifier is not id.
	DeserializeExpected(r wire.Reader, id uint64) (Tag, error)
}

// Base holds the identifier and population state every tag kind needs.
// Embed it and call MarkPopulated once a value is in place.
type Base struct {
	id        uint64
	populated bool
}

// NewBase returns an unpopulated Base for id.
func NewBase(id uint64) Base {
	return Base{id: id}
}

// ID implements Tag.
func (b *Base) ID() uint64 {
	return b.id
}

// Populated implements Tag.
func (b *Base) Populated() bool {
	return b.populated
}

// MarkPopulated records that the tag holds a value.
func (b *Base) MarkPopulated() {
	b.populated = true
}

// Serialize writes t to w: the identifier, the value size for explicit
// identifiers, then the payload.
//
// The payload is checked against ValueSize while it is written, so a tag
// that lies about its size fails with ErrInconsistentSize after its bytes
// reached w.
func Serialize(t Tag, w wire.Writer) error {
	id := t.ID()
	if !t.Populated() {
		return fmt.Errorf("%w: tag %d", ErrUnpopulated, id)
	}
	size := t.ValueSize()
	if err := checkValueSize(id, size); err != nil {
		return fmt.Errorf("%w: tag %d declares %d bytes", err, id, size)
	}
	if err := wire.WriteILInt(w, id); err != nil {
		return err
	}
	if IsExplicit(id) {
		if err := wire.WriteILInt(w, size); err != nil {
			return err
		}
	}
	cw := wire.NewCountingWriter(w)
	if err := t.SerializeValue(cw); err != nil {
		return wrapWithTag(err, id)
	}
	if cw.Count() != size {
		return fmt.Errorf("%w: tag %d wrote %d bytes, declared %d", ErrInconsistentSize, id, cw.Count(), size)
	}
	return nil
}

// Size returns the total encoded size of t.
func Size(t Tag) uint64 {
	size := t.ValueSize()
	return HeaderSize(t.ID(), size) + size
}

// As narrows t to a concrete tag kind. It returns false instead of
// panicking when t is of another kind.
func As[T Tag](t Tag) (T, bool) {
	v, ok := t.(T)
	return v, ok
}
