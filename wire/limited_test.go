package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestLimitedReader(t *testing.T) {
	t.Run("refuses_past_limit_without_consuming_source", func(t *testing.T) {
		src := NewBufferReader([]byte{1, 2, 3, 4, 5})
		r := NewLimitedReader(src, 3)
		if err := r.ReadFull(make([]byte, 4)); !errors.Is(err, ErrUnexpectedEnd) {
			t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
		}
		if src.Offset() != 0 {
			t.Errorf("source consumed %d bytes", src.Offset())
		}
		if err := r.Skip(4); !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("expected ErrUnexpectedEnd, got %v", err)
		}
		p := make([]byte, 3)
		if err := r.ReadFull(p); err != nil {
			t.Fatalf("ReadFull failed: %v", err)
		}
		if !r.Empty() {
			t.Error("limit should be reached")
		}
		if _, err := r.ReadByte(); !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("expected ErrUnexpectedEnd, got %v", err)
		}
		if src.Offset() != 3 {
			t.Errorf("source offset = %d, want 3", src.Offset())
		}
	})

	t.Run("remaining_is_bounded_by_source", func(t *testing.T) {
		tests := []struct {
			name      string
			r         *LimitedReader
			want      uint64
			wantKnown bool
		}{
			{"source_smaller", NewLimitedReader(NewBufferReader([]byte{1, 2}), 10), 2, true},
			{"limit_smaller", NewLimitedReader(NewBufferReader([]byte{1, 2}), 1), 1, true},
			{"stream_source", NewLimitedReader(NewStreamReader(bytes.NewReader([]byte{1, 2})), 1<<40), 0, false},
			{"nested", NewLimitedReader(NewLimitedReader(NewBufferReader([]byte{1, 2, 3}), 2), 5), 2, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, known, err := Remaining(tt.r)
				if err != nil {
					t.Fatal(err)
				}
				if got != tt.want || known != tt.wantKnown {
					t.Errorf("Remaining = %d, %v, want %d, %v", got, known, tt.want, tt.wantKnown)
				}
			})
		}
		if got := NewLimitedReader(NewBufferReader(nil), 7).Available(); got != 7 {
			t.Errorf("Available = %d, want 7", got)
		}
	})

	t.Run("source_shorter_than_limit", func(t *testing.T) {
		r := NewLimitedReader(NewBufferReader([]byte{1}), 2)
		if err := r.ReadFull(make([]byte, 2)); !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("expected ErrUnexpectedEnd, got %v", err)
		}
		if r.Empty() {
			t.Error("failed read must not count against the limit")
		}
	})

	t.Run("drain", func(t *testing.T) {
		src := NewBufferReader([]byte{1, 2, 3, 4})
		r := NewLimitedReader(src, 3)
		_, _ = r.ReadByte()
		if err := r.Drain(); err != nil {
			t.Fatalf("Drain failed: %v", err)
		}
		if src.Offset() != 3 {
			t.Errorf("source offset = %d, want 3", src.Offset())
		}
	})
}
