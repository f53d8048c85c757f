package tags

import (
	"github.com/anirudhraja/iltags/wire"
)

// seq is a minimal container payload used to exercise nesting.
type seq struct {
	items []Tag
}

func newSeq() *seq { return &seq{} }

func (s *seq) ValueSize() uint64 {
	var size uint64
	for _, t := range s.items {
		size += Size(t)
	}
	return size
}

func (s *seq) SerializeValue(w wire.Writer) error {
	for _, t := range s.items {
		if err := Serialize(t, w); err != nil {
			return err
		}
	}
	return nil
}

func (s *seq) DeserializeValue(d Decoder, valueSize uint64, r wire.Reader) error {
	lr := wire.NewLimitedReader(r, valueSize)
	for !lr.Empty() {
		t, err := d.Deserialize(lr)
		if err != nil {
			return err
		}
		s.items = append(s.items, t)
	}
	return nil
}

// lyingTag declares one more byte than it writes.
type lyingTag struct {
	Base
}

func (t *lyingTag) ValueSize() uint64 { return 3 }

func (t *lyingTag) SerializeValue(w wire.Writer) error {
	return w.WriteAll([]byte{1, 2})
}

func (t *lyingTag) DeserializeValue(Decoder, uint64, wire.Reader) error { return nil }

// greedyTag reads a single byte whatever its value size.
type greedyTag struct {
	Base
}

func (t *greedyTag) ValueSize() uint64 { return 1 }

func (t *greedyTag) SerializeValue(w wire.Writer) error { return w.WriteByte(0) }

func (t *greedyTag) DeserializeValue(_ Decoder, _ uint64, r wire.Reader) error {
	_, err := r.ReadByte()
	t.MarkPopulated()
	return err
}
