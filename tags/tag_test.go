package tags

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/anirudhraja/iltags/wire"
)

func TestFraming(t *testing.T) {
	tests := []struct {
		id            uint64
		implicit      bool
		fixed         uint64
		hasFixed      bool
		selfDelimited bool
		defined       bool
	}{
		{id: 0, implicit: true, fixed: 0, hasFixed: true, defined: true},
		{id: 1, implicit: true, fixed: 1, hasFixed: true, defined: true},
		{id: 5, implicit: true, fixed: 2, hasFixed: true, defined: true},
		{id: 9, implicit: true, fixed: 8, hasFixed: true, defined: true},
		{id: 10, implicit: true, selfDelimited: true, defined: true},
		{id: 13, implicit: true, fixed: 16, hasFixed: true, defined: true},
		{id: 14, implicit: true, selfDelimited: true, defined: true},
		{id: 15, implicit: true},
		{id: 16, defined: true},
		{id: math.MaxUint64, defined: true},
	}

	for _, tt := range tests {
		if got := IsImplicit(tt.id); got != tt.implicit {
			t.Errorf("IsImplicit(%d) = %v", tt.id, got)
		}
		if got := IsExplicit(tt.id); got == tt.implicit {
			t.Errorf("IsExplicit(%d) = %v", tt.id, got)
		}
		fixed, ok := ImplicitValueSize(tt.id)
		if ok != tt.hasFixed || fixed != tt.fixed {
			t.Errorf("ImplicitValueSize(%d) = %d, %v", tt.id, fixed, ok)
		}
		if got := IsSelfDelimited(tt.id); got != tt.selfDelimited {
			t.Errorf("IsSelfDelimited(%d) = %v", tt.id, got)
		}
		if got := IsDefined(tt.id); got != tt.defined {
			t.Errorf("IsDefined(%d) = %v", tt.id, got)
		}
	}

	if !IsReserved(31) || IsReserved(32) {
		t.Error("reserved range should end at 31")
	}
	if got := HeaderSize(16, 300); got != 3 {
		t.Errorf("HeaderSize(16, 300) = %d, want 3", got)
	}
	if got := HeaderSize(4, 2); got != 1 {
		t.Errorf("HeaderSize(4, 2) = %d, want 1", got)
	}
}

func TestSerialize(t *testing.T) {
	t.Run("explicit_raw", func(t *testing.T) {
		tag, err := NewRawTag(16, []byte{0x01, 0x02, 0x03})
		if err != nil {
			t.Fatal(err)
		}
		data, err := Marshal(tag)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if want := []byte{0x10, 0x03, 0x01, 0x02, 0x03}; !bytes.Equal(data, want) {
			t.Errorf("got % x, want % x", data, want)
		}
		if Size(tag) != 5 {
			t.Errorf("Size = %d", Size(tag))
		}
	})

	t.Run("implicit_raw", func(t *testing.T) {
		tag, err := NewRawTag(4, []byte{0xFF, 0xFE})
		if err != nil {
			t.Fatal(err)
		}
		data, _ := Marshal(tag)
		if want := []byte{0x04, 0xFF, 0xFE}; !bytes.Equal(data, want) {
			t.Errorf("got % x, want % x", data, want)
		}
	})

	t.Run("large_identifier", func(t *testing.T) {
		tag, _ := NewRawTag(0x021B, nil)
		data, _ := Marshal(tag)
		if want := []byte{0xF9, 0x01, 0x23, 0x00}; !bytes.Equal(data, want) {
			t.Errorf("got % x, want % x", data, want)
		}
	})

	t.Run("unpopulated", func(t *testing.T) {
		err := Serialize(NewEmptyRawTag(16), wire.NewBufferWriter())
		if !errors.Is(err, ErrUnpopulated) {
			t.Errorf("expected ErrUnpopulated, got %v", err)
		}
		if _, err := Marshal(PayloadCreator(newSeq)(40)); !errors.Is(err, ErrUnpopulated) {
			t.Errorf("expected ErrUnpopulated, got %v", err)
		}
	})

	t.Run("size_mismatch", func(t *testing.T) {
		tag := &lyingTag{Base: NewBase(100)}
		tag.MarkPopulated()
		err := Serialize(tag, wire.NewBufferWriter())
		if !errors.Is(err, ErrInconsistentSize) {
			t.Errorf("expected ErrInconsistentSize, got %v", err)
		}
	})

	t.Run("implicit_size_mismatch", func(t *testing.T) {
		tag := &lyingTag{Base: NewBase(6)}
		tag.MarkPopulated()
		w := wire.NewBufferWriter()
		if err := Serialize(tag, w); !errors.Is(err, ErrInconsistentSize) {
			t.Errorf("expected ErrInconsistentSize, got %v", err)
		}
		if w.Len() != 0 {
			t.Error("nothing should be written for a size the identifier forbids")
		}
	})

	t.Run("bounded_writer", func(t *testing.T) {
		tag, _ := NewRawTag(16, []byte{1, 2, 3})
		w := wire.NewFixedWriterSize(4)
		if err := Serialize(tag, w); !errors.Is(err, wire.ErrCapacityExceeded) {
			t.Errorf("expected ErrCapacityExceeded, got %v", err)
		}
	})
}

func TestRawTagConstruction(t *testing.T) {
	tests := []struct {
		name    string
		id      uint64
		payload []byte
		wantErr error
	}{
		{name: "explicit_empty", id: 16},
		{name: "implicit_exact", id: 6, payload: []byte{0, 0, 0, 1}},
		{name: "implicit_short", id: 6, payload: []byte{0, 0, 1}, wantErr: ErrInconsistentSize},
		{name: "null_with_payload", id: 0, payload: []byte{0}, wantErr: ErrInconsistentSize},
		{name: "ilint_ok", id: 10, payload: []byte{0xF9, 0x01, 0x23}},
		{name: "ilint_wrong_length", id: 10, payload: []byte{0xF9, 0x01}, wantErr: ErrInconsistentSize},
		{name: "ilint_empty", id: 10, wantErr: ErrInconsistentSize},
		{name: "undefined", id: 15, wantErr: ErrInvalidTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := NewRawTag(tt.id, tt.payload)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRawTag failed: %v", err)
			}
			if !tag.Populated() || tag.ValueSize() != uint64(len(tt.payload)) {
				t.Errorf("populated=%v size=%d", tag.Populated(), tag.ValueSize())
			}
		})
	}

	t.Run("owns_payload", func(t *testing.T) {
		p := []byte{1, 2}
		tag, _ := NewRawTag(16, p)
		p[0] = 9
		if tag.Payload()[0] != 1 {
			t.Error("payload should be copied")
		}
	})
}

func TestSignedILIntTag(t *testing.T) {
	tests := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x0E, 0x00}},
		{-1, []byte{0x0E, 0x01}},
		{1, []byte{0x0E, 0x02}},
		{123, []byte{0x0E, 0xF6}},
		{-124, []byte{0x0E, 0xF7}},
		{124, []byte{0x0E, 0xF8, 0x00}},
		{math.MinInt64, []byte{0x0E, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{math.MaxInt64, []byte{0x0E, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x06}},
	}

	reg := NewRegistry()
	reg.MustRegister(SignedILIntTagID, SignedILIntCreator)

	for _, tt := range tests {
		tag := NewSignedILIntTag(tt.value)
		data, err := Marshal(tag)
		if err != nil {
			t.Fatalf("Marshal(%d) failed: %v", tt.value, err)
		}
		if !bytes.Equal(data, tt.want) {
			t.Errorf("Marshal(%d) = % x, want % x", tt.value, data, tt.want)
		}
		decoded, err := Unmarshal(reg, data)
		if err != nil {
			t.Fatalf("Unmarshal(% x) failed: %v", data, err)
		}
		st, ok := As[*SignedILIntTag](decoded)
		if !ok {
			t.Fatalf("decoded %T", decoded)
		}
		if st.Value() != tt.value {
			t.Errorf("round trip %d -> %d", tt.value, st.Value())
		}
	}

	t.Run("explicit_identifier", func(t *testing.T) {
		reg := NewRegistry()
		reg.MustRegister(100, SignedILIntCreator)
		data, _ := Marshal(NewSignedILIntTagID(100, -300))
		if data[0] != 100 || data[1] != 3 {
			t.Fatalf("header % x", data[:2])
		}
		decoded, err := Unmarshal(reg, data)
		if err != nil {
			t.Fatal(err)
		}
		if v := decoded.(*SignedILIntTag).Value(); v != -300 {
			t.Errorf("got %d", v)
		}

		_, err = Unmarshal(reg, []byte{100, 0x02, 0x01, 0x00})
		if !errors.Is(err, wire.ErrCorruptedData) {
			t.Errorf("expected ErrCorruptedData, got %v", err)
		}
	})

	t.Run("failed_decode_keeps_value", func(t *testing.T) {
		tag := NewSignedILIntTag(5)
		err := tag.DeserializeValue(nil, 3, wire.NewBufferReader([]byte{0xF9, 0x01}))
		if !errors.Is(err, wire.ErrUnexpectedEnd) {
			t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
		}
		if tag.Value() != 5 {
			t.Errorf("value changed to %d", tag.Value())
		}
	})
}

func TestRawTagAtomicDecode(t *testing.T) {
	tag, _ := NewRawTag(16, []byte{7})
	err := tag.DeserializeValue(nil, 4, wire.NewBufferReader([]byte{1, 2}))
	if !errors.Is(err, wire.ErrUnexpectedEnd) {
		t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
	}
	if !bytes.Equal(tag.Payload(), []byte{7}) {
		t.Errorf("payload changed to %v", tag.Payload())
	}
}

func TestAs(t *testing.T) {
	var tag Tag = NewSignedILIntTag(3)
	if _, ok := As[*RawTag](tag); ok {
		t.Error("a signed tag is not a raw tag")
	}
	if st, ok := As[*SignedILIntTag](tag); !ok || st.Value() != 3 {
		t.Error("narrowing to the concrete kind should work")
	}
}
