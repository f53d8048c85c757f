package tags

import (
	"bytes"

	"github.com/anirudhraja/iltags/wire"
)

// Marshal returns the encoding of t.
func Marshal(t Tag) ([]byte, error) {
	w := wire.NewBufferWriter()
	if t.Populated() {
		w = wire.NewBufferWriterSize(int(Size(t)))
	}
	if err := Serialize(t, w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes exactly one tag from data. Trailing bytes are
// reported as wire.ErrCorruptedData.
func Unmarshal(d Decoder, data []byte) (Tag, error) {
	r := wire.NewBufferReader(data)
	t, err := d.Deserialize(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, wire.Corrupted("%d trailing bytes after tag %d", r.Remaining(), t.ID())
	}
	return t, nil
}

// UnmarshalAll decodes every tag in data.
func UnmarshalAll(d Decoder, data []byte) ([]Tag, error) {
	r := wire.NewBufferReader(data)
	var out []Tag
	for r.Remaining() > 0 {
		t, err := d.Deserialize(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Equal reports whether a and b encode to the same bytes. Tags that fail
// to encode are never equal.
func Equal(a, b Tag) bool {
	if a.ID() != b.ID() {
		return false
	}
	ea, err := Marshal(a)
	if err != nil {
		return false
	}
	eb, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

// Clone returns a deep copy of t decoded through d.
func Clone(d Decoder, t Tag) (Tag, error) {
	data, err := Marshal(t)
	if err != nil {
		return nil, err
	}
	return Unmarshal(d, data)
}
