package tags

import (
	"fmt"
	"io"

	"github.com/anirudhraja/iltags/wire"
)

// Entry locates one tag in a stream.
type Entry struct {
	ID         uint64
	Offset     uint64 // position of the first header byte
	HeaderSize uint64 // identifier plus length field
	ValueSize  uint64
}

// Size returns the total encoded size of the tag.
func (e Entry) Size() uint64 {
	return e.HeaderSize + e.ValueSize
}

// ValueOffset returns the position of the first payload byte.
func (e Entry) ValueOffset() uint64 {
	return e.Offset + e.HeaderSize
}

// End returns the position just past the tag, where the next one starts.
func (e Entry) End() uint64 {
	return e.Offset + e.Size()
}

// Bytes returns the tag within raw, the data the entry was scanned from.
func (e Entry) Bytes(raw []byte) []byte {
	return raw[e.Offset:e.End()]
}

// Value returns the payload within raw.
func (e Entry) Value(raw []byte) []byte {
	return raw[e.ValueOffset():e.End()]
}

// InParent maps an entry scanned from the payload of parent to the
// offsets of the data parent was scanned from. An entry that does not fit
// in the payload is wire.ErrCorruptedData.
func (e Entry) InParent(parent Entry) (Entry, error) {
	if e.End() > parent.ValueSize {
		return Entry{}, wire.Corrupted("tag at %d+%d overflows a %d byte payload", e.Offset, e.Size(), parent.ValueSize)
	}
	e.Offset += parent.ValueOffset()
	return e, nil
}

// Scanner walks a sequence of top-level tags without decoding payloads.
type Scanner struct {
	r            wire.Reader
	offset       uint64
	maxValueSize uint64
}

// NewScanner returns a scanner over r. Value sizes above maxValueSize fail
// with wire.ErrValueOverflow; zero disables the check.
func NewScanner(r wire.Reader, maxValueSize uint64) *Scanner {
	return &Scanner{r: r, maxValueSize: maxValueSize}
}

// atEnd reports a clean end of data between tags. Readers that cannot tell
// are never at the end; for them a truncated header shows up as
// wire.ErrUnexpectedEnd instead.
func (s *Scanner) atEnd() (bool, error) {
	switch r := s.r.(type) {
	case interface{ AtEnd() (bool, error) }:
		return r.AtEnd()
	case *wire.LimitedReader:
		return r.Empty(), nil
	}
	n, known, err := wire.Remaining(s.r)
	if err != nil {
		return false, err
	}
	return known && n == 0, nil
}

func (s *Scanner) next(want uint64, expect bool) (Entry, *header, error) {
	end, err := s.atEnd()
	if err != nil {
		return Entry{}, nil, err
	}
	if end {
		return Entry{}, nil, io.EOF
	}
	h, err := readID(s.r)
	if err != nil {
		return Entry{}, nil, err
	}
	if expect && h.id != want {
		return Entry{}, nil, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedTag, h.id, want)
	}
	if err := h.readSize(s.r, s.maxValueSize); err != nil {
		return Entry{}, nil, err
	}
	e := Entry{ID: h.id, Offset: s.offset, HeaderSize: h.headerSize, ValueSize: h.valueSize}
	return e, &h, nil
}

// Next skips over the next tag and reports where it was. It returns io.EOF
// at a clean end of data.
func (s *Scanner) Next() (Entry, error) {
	e, h, err := s.next(0, false)
	if err != nil {
		return e, err
	}
	if err := h.payloadReader(s.r).Skip(e.ValueSize); err != nil {
		return Entry{}, err
	}
	s.offset += e.Size()
	return e, nil
}

// NextExpected is like Next but fails with ErrUnexpectedTag if the next
// tag does not have identifier id.
func (s *Scanner) NextExpected(id uint64) (Entry, error) {
	e, h, err := s.next(id, true)
	if err != nil {
		return e, err
	}
	if err := h.payloadReader(s.r).Skip(e.ValueSize); err != nil {
		return Entry{}, err
	}
	s.offset += e.Size()
	return e, nil
}

// NextValue is like Next but returns the payload bytes instead of skipping
// them.
func (s *Scanner) NextValue() (Entry, []byte, error) {
	e, h, err := s.next(0, false)
	if err != nil {
		return e, nil, err
	}
	value, err := wire.ReadBytes(h.payloadReader(s.r), e.ValueSize)
	if err != nil {
		return Entry{}, nil, err
	}
	s.offset += e.Size()
	return e, value, nil
}

// Offset returns the position of the next tag.
func (s *Scanner) Offset() uint64 {
	return s.offset
}
