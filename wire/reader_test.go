package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestBufferReader(t *testing.T) {
	t.Run("read_byte", func(t *testing.T) {
		r := NewBufferReader([]byte{0x01, 0x02})
		for _, want := range []byte{0x01, 0x02} {
			b, err := r.ReadByte()
			if err != nil {
				t.Fatalf("ReadByte failed: %v", err)
			}
			if b != want {
				t.Errorf("got %#x, want %#x", b, want)
			}
		}
		if _, err := r.ReadByte(); !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("expected ErrUnexpectedEnd, got %v", err)
		}
	})

	t.Run("read_full_is_all_or_nothing", func(t *testing.T) {
		r := NewBufferReader([]byte{1, 2, 3})
		p := make([]byte, 4)
		if err := r.ReadFull(p); !errors.Is(err, ErrUnexpectedEnd) {
			t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
		}
		if r.Offset() != 0 {
			t.Errorf("failed read consumed %d bytes", r.Offset())
		}
		p = p[:3]
		if err := r.ReadFull(p); err != nil {
			t.Fatalf("ReadFull failed: %v", err)
		}
		if !bytes.Equal(p, []byte{1, 2, 3}) {
			t.Errorf("got %v", p)
		}
		if r.Remaining() != 0 {
			t.Errorf("Remaining = %d, want 0", r.Remaining())
		}
	})

	t.Run("skip", func(t *testing.T) {
		r := NewBufferReader([]byte{1, 2, 3, 4})
		if err := r.Skip(2); err != nil {
			t.Fatalf("Skip failed: %v", err)
		}
		if err := r.Skip(3); !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("expected ErrUnexpectedEnd, got %v", err)
		}
		b, _ := r.ReadByte()
		if b != 3 {
			t.Errorf("got %d after skip, want 3", b)
		}
	})

	t.Run("next_shares_buffer", func(t *testing.T) {
		data := []byte{9, 8, 7}
		r := NewBufferReader(data)
		view, err := r.Next(2)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		data[0] = 0
		if view[0] != 0 {
			t.Error("Next should not copy")
		}
		if _, err := r.Next(2); !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("expected ErrUnexpectedEnd, got %v", err)
		}
	})

	t.Run("reset", func(t *testing.T) {
		r := NewBufferReader([]byte{1})
		_, _ = r.ReadByte()
		r.Reset([]byte{5, 6})
		if r.Offset() != 0 || r.Remaining() != 2 {
			t.Errorf("after Reset offset=%d remaining=%d", r.Offset(), r.Remaining())
		}
	})
}
