package standard

import (
	"bytes"
	"errors"
	"math/big"
	"slices"
	"testing"

	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/wire"
)

func TestDecodedKinds(t *testing.T) {
	f := Factory()

	decode := func(t *testing.T, data []byte) tags.Tag {
		t.Helper()
		tag, err := tags.Unmarshal(f, data)
		if err != nil {
			t.Fatalf("Unmarshal(% x) failed: %v", data, err)
		}
		return tag
	}

	t.Run("int16", func(t *testing.T) {
		tag, ok := tags.As[*Int16Tag](decode(t, []byte{0x04, 0xFF, 0xFE}))
		if !ok || tag.Value() != -2 {
			t.Errorf("got %v, %v", tag, ok)
		}
	})

	t.Run("ilint", func(t *testing.T) {
		tag, ok := tags.As[*ILIntTag](decode(t, []byte{0x0A, 0xF9, 0x01, 0x23}))
		if !ok || tag.Value() != 0x021B {
			t.Errorf("got %v, %v", tag, ok)
		}
	})

	t.Run("string", func(t *testing.T) {
		tag, ok := tags.As[*StringTag](decode(t, []byte{0x11, 0x02, 'h', 'i'}))
		if !ok || tag.Value() != "hi" {
			t.Errorf("got %v, %v", tag, ok)
		}
	})

	t.Run("range", func(t *testing.T) {
		tag, ok := tags.As[*RangeTag](decode(t, []byte{0x17, 0x03, 0x0A, 0x00, 0x03}))
		if !ok || *tag.Value() != (Range{Start: 10, Count: 3}) {
			t.Errorf("got %v, %v", tag, ok)
		}
	})

	t.Run("version", func(t *testing.T) {
		data := hexTag(t, NewVersionTag(1, -2, 3, 4))
		tag, ok := tags.As[*VersionTag](decode(t, data))
		if !ok || *tag.Value() != (Version{Major: 1, Minor: -2, Revision: 3, Build: 4}) {
			t.Errorf("got %v, %v", tag, ok)
		}
	})

	t.Run("wrong_kind", func(t *testing.T) {
		if _, ok := tags.As[*StringTag](decode(t, []byte{0x01, 0x00})); ok {
			t.Error("a bool tag is not a string tag")
		}
	})

	t.Run("dict", func(t *testing.T) {
		data := hexTag(t, dictSample())
		tag, ok := tags.As[*DictTag](decode(t, data))
		if !ok {
			t.Fatal("expected *DictTag")
		}
		if got := tag.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("keys %v", got)
		}
		v, _ := tag.Get("b")
		if u, ok := tags.As[*Uint8Tag](v); !ok || u.Value() != 2 {
			t.Errorf("b = %v", v)
		}
	})

	t.Run("string_dict_reads_as_dict", func(t *testing.T) {
		data := hexTag(t, NewStringDictTag(map[string]string{"k": "v", "a": "z"}))
		data[0] = byte(DictTagID)
		tag, ok := tags.As[*DictTag](decode(t, data))
		if !ok || tag.Len() != 2 {
			t.Fatalf("got %v, %v", tag, ok)
		}
		v, _ := tag.Get("k")
		if s, ok := tags.As[*StringTag](v); !ok || s.Value() != "v" {
			t.Errorf("k = %v", v)
		}
	})

	t.Run("unknown_nested", func(t *testing.T) {
		data := []byte{0x16, 0x04, 0x20, 0x02, 0xAA, 0xBB}
		seq, ok := tags.As[*TagSeqTag](decode(t, data))
		if !ok || len(seq.Items()) != 1 {
			t.Fatalf("got %v, %v", seq, ok)
		}
		if _, ok := tags.As[*tags.UnknownTag](seq.Items()[0]); !ok {
			t.Errorf("item is %T", seq.Items()[0])
		}
		if again := hexTag(t, seq); !bytes.Equal(again, data) {
			t.Errorf("re-encoded % x", again)
		}
	})
}

func TestCorruptedPayloads(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bool_out_of_range", []byte{0x01, 0x02}, wire.ErrCorruptedData},
		{"invalid_utf8", []byte{0x11, 0x02, 0xC3, 0x28}, wire.ErrCorruptedData},
		{"empty_bigint", []byte{0x12, 0x00}, wire.ErrCorruptedData},
		{"short_bigdec", []byte{0x13, 0x04, 0, 0, 0, 1}, wire.ErrCorruptedData},
		{"array_count_too_large", []byte{0x15, 0x01, 0x05}, wire.ErrCorruptedData},
		{"ilint_array_count_too_large", []byte{0x14, 0x02, 0x03, 0x01}, wire.ErrCorruptedData},
		{"range_trailing_byte", []byte{0x17, 0x04, 0x0A, 0x00, 0x03, 0xFF}, wire.ErrCorruptedData},
		{"range_short", []byte{0x17, 0x02, 0x0A, 0x00}, wire.ErrUnexpectedEnd},
		{"version_size", []byte{0x18, 0x03, 0, 0, 0}, wire.ErrCorruptedData},
		{
			"dict_duplicate_key",
			[]byte{0x1E, 0x0B, 0x02, 0x11, 0x01, 'a', 0x01, 0x01, 0x11, 0x01, 'a', 0x03, 0x02},
			wire.ErrCorruptedData,
		},
		{"dict_key_not_string", []byte{0x1E, 0x05, 0x01, 0x03, 0x00, 0x01, 0x01}, wire.ErrCorruptedData},
		{"seq_truncated_child", []byte{0x16, 0x02, 0x06, 0x00}, wire.ErrUnexpectedEnd},
		{"int32_truncated", []byte{0x06, 0x00, 0x00}, wire.ErrUnexpectedEnd},
		{"ilint_truncated", []byte{0x0A, 0xFA, 0x01}, wire.ErrUnexpectedEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tags.Unmarshal(Factory(), tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValueTagUnderCustomID(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(1000, valueCreator(int32Codec))

	tag := newValueTag(1000, int32Codec, int32(-5))
	data := hexTag(t, tag)
	if want := []byte{0xF9, 0x02, 0xF0, 0x04, 0xFF, 0xFF, 0xFF, 0xFB}; !bytes.Equal(data, want) {
		t.Fatalf("encoded % x, want % x", data, want)
	}
	if _, err := tags.Unmarshal(reg, data); err != nil {
		t.Errorf("Unmarshal failed: %v", err)
	}

	bad := []byte{0xF9, 0x02, 0xF0, 0x02, 0xFF, 0xFF}
	if _, err := tags.Unmarshal(reg, bad); !errors.Is(err, wire.ErrCorruptedData) {
		t.Errorf("expected ErrCorruptedData, got %v", err)
	}
}

func TestTwosComplement(t *testing.T) {
	tests := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x00, 0x80}},
		{255, []byte{0x00, 0xFF}},
		{-1, []byte{0xFF}},
		{-128, []byte{0x80}},
		{-129, []byte{0xFF, 0x7F}},
		{-256, []byte{0xFF, 0x00}},
		{-32768, []byte{0x80, 0x00}},
	}
	for _, tt := range tests {
		got := twosComplement(big.NewInt(tt.v))
		if !bytes.Equal(got, tt.want) {
			t.Errorf("twosComplement(%d) = % x, want % x", tt.v, got, tt.want)
		}
		if back := fromTwosComplement(got); back.Int64() != tt.v {
			t.Errorf("fromTwosComplement(% x) = %v", got, back)
		}
	}
}

func TestBigDecRat(t *testing.T) {
	if got := NewBigDecTag(big.NewInt(12345), 2).Rat(); got.Cmp(big.NewRat(12345, 100)) != 0 {
		t.Errorf("Rat = %v", got)
	}
	if got := NewBigDecTag(big.NewInt(-7), -3).Rat(); got.Cmp(big.NewRat(-7000, 1)) != 0 {
		t.Errorf("Rat = %v", got)
	}
}

func TestRegistry(t *testing.T) {
	if Factory() != Factory() {
		t.Error("Factory should be built once")
	}
	ids := IDs()
	if len(ids) != 27 || ids[0] != NullTagID || ids[len(ids)-1] != StringDictTagID {
		t.Errorf("IDs = %v", ids)
	}
	for _, id := range ids {
		if !Factory().Registered(id) {
			t.Errorf("standard id %d not registered", id)
		}
	}

	reg := NewRegistry()
	if err := reg.Register(StringTagID, stringCreator); !errors.Is(err, tags.ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if err := reg.Register(1000, tags.RawCreator); err != nil {
		t.Fatal(err)
	}
	f := reg.Seal()
	if err := reg.Register(1001, tags.RawCreator); !errors.Is(err, tags.ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", err)
	}
	if !f.Registered(1000) || Factory().Registered(1000) {
		t.Error("custom ids must not leak into the shared factory")
	}

	strict := NewRegistry(tags.WithStrict())
	if _, err := tags.Unmarshal(strict, []byte{0x20, 0x00}); !errors.Is(err, tags.ErrUnknownTag) {
		t.Errorf("expected ErrUnknownTag, got %v", err)
	}
}

func TestCollectionsOwnTheirData(t *testing.T) {
	values := []uint64{1, 2}
	arr := NewILIntArrayTag(values)
	values[0] = 9
	if arr.Values()[0] != 1 {
		t.Error("array should copy its input")
	}

	src := map[string]string{"a": "b"}
	sd := NewStringDictTag(src)
	src["a"] = "c"
	if v, _ := sd.Get("a"); v != "b" {
		t.Error("string dictionary should copy its input")
	}

	seq := NewTagSeqTag()
	seq.Append(NewNullTag())
	arrTag := NewTagArrayTag()
	arrTag.Append(NewNullTag(), NewNullTag())
	if tags.Size(seq) != 3 || tags.Size(arrTag) != 5 {
		t.Errorf("sizes %d, %d", tags.Size(seq), tags.Size(arrTag))
	}
}

func TestAtomicDecode(t *testing.T) {
	d := dictSample()
	err := d.DeserializeValue(Factory(), 4, wire.NewBufferReader([]byte{0x02, 0x11, 0x01, 'x'}))
	if err == nil {
		t.Fatal("expected an error")
	}
	if d.Len() != 2 {
		t.Errorf("dictionary changed to %d entries", d.Len())
	}
}

func TestDictUnderCustomID(t *testing.T) {
	const recordID = 0x10000
	record := NewDictTagID(recordID)
	record.Put("name", NewStringTag("x"))

	reg := NewRegistry()
	reg.MustRegister(recordID, DictCreator)
	clone, err := tags.Clone(reg, record)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	d, ok := clone.(*DictTag)
	if !ok || d.ID() != recordID {
		t.Fatalf("clone = %T %d", clone, clone.ID())
	}
	if v, _ := d.Get("name"); v.(*StringTag).Value() != "x" {
		t.Errorf("name = %v", v)
	}
}

func TestDictKeyOrder(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		keys []string
	}{
		{
			name: "dict",
			data: []byte{0x1E, 0x0B, 0x02, 0x11, 0x01, 'b', 0x03, 0x02, 0x11, 0x01, 'a', 0x03, 0x01},
			keys: []string{"b", "a"},
		},
		{
			name: "string_dict",
			data: []byte{0x1F, 0x0D, 0x02, 0x11, 0x01, 'z', 0x11, 0x01, '1', 0x11, 0x01, 'a', 0x11, 0x01, '2'},
			keys: []string{"z", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := tags.Unmarshal(Factory(), tt.data)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			keyed, ok := tag.(interface{ Keys() []string })
			if !ok {
				t.Fatalf("%T has no keys", tag)
			}
			if got := keyed.Keys(); !slices.Equal(got, tt.keys) {
				t.Errorf("keys %v, want %v", got, tt.keys)
			}
			again, err := tags.Marshal(tag)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(again, tt.data) {
				t.Errorf("re-encoded % x, want % x", again, tt.data)
			}
		})
	}

	t.Run("put_and_delete", func(t *testing.T) {
		d := NewDictTag()
		d.Put("z", NewNullTag())
		d.Put("a", NewNullTag())
		d.Put("m", NewNullTag())
		d.Put("z", NewBoolTag(true))
		d.Delete("a")
		d.Delete("missing")
		if got := d.Keys(); !slices.Equal(got, []string{"z", "m"}) {
			t.Errorf("keys %v", got)
		}
		want := []byte{0x1E, 0x0A, 0x02, 0x11, 0x01, 'z', 0x01, 0x01, 0x11, 0x01, 'm', 0x00}
		if got := hexTag(t, d); !bytes.Equal(got, want) {
			t.Errorf("encoded % x, want % x", got, want)
		}
	})
}

func TestZeroValues(t *testing.T) {
	t.Run("dict", func(t *testing.T) {
		var d DictTag
		d.Put("k", NewNullTag())
		if d.Len() != 1 {
			t.Errorf("Len = %d", d.Len())
		}
	})

	t.Run("string_dict", func(t *testing.T) {
		var d StringDictTag
		d.Put("k", "v")
		if v, ok := d.Get("k"); !ok || v != "v" {
			t.Errorf("Get = %q, %v", v, ok)
		}
	})

	t.Run("bigint", func(t *testing.T) {
		var zero BigIntTag
		if zero.Value().Sign() != 0 {
			t.Error("zero value should read as 0")
		}
		tag := NewBigIntTag(nil)
		if tag.Value().Sign() != 0 || tag.ValueSize() != 1 {
			t.Errorf("nil stored as %v in %d bytes", tag.Value(), tag.ValueSize())
		}
	})

	t.Run("bigdec", func(t *testing.T) {
		tag := NewBigDecTag(nil, 2)
		if tag.Rat().Sign() != 0 {
			t.Errorf("nil stored as %v", tag.Rat())
		}
	})
}
