package ilint

import (
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

var benchValues = []uint64{0, 1, 200, 247, 248, 1 << 12, 1 << 20, 1 << 33, 1 << 50, math.MaxUint64}

// TestSizeAgainstProtowire documents where ILInt is smaller or larger than
// a protobuf varint for the same value.
func TestSizeAgainstProtowire(t *testing.T) {
	tests := []struct {
		value  uint64
		ilint  int
		varint int
	}{
		{0, 1, 1},
		{127, 1, 1},
		{128, 1, 2},
		{247, 1, 2},
		{248, 2, 2},
		{1 << 14, 3, 3},
		{1 << 56, 8, 9},
		{1 << 63, 9, 10},
		{math.MaxUint64, 9, 10},
	}
	for _, tt := range tests {
		if got := EncodedSize(tt.value); got != tt.ilint {
			t.Errorf("EncodedSize(%#x) = %d, want %d", tt.value, got, tt.ilint)
		}
		if got := protowire.SizeVarint(tt.value); got != tt.varint {
			t.Errorf("protowire.SizeVarint(%#x) = %d, want %d", tt.value, got, tt.varint)
		}
	}
}

func BenchmarkAppend(b *testing.B) {
	buf := make([]byte, 0, MaxSize*len(benchValues))
	for i := 0; i < b.N; i++ {
		buf = buf[:0]
		for _, v := range benchValues {
			buf = Append(buf, v)
		}
	}
}

func BenchmarkProtowireAppendVarint(b *testing.B) {
	buf := make([]byte, 0, 10*len(benchValues))
	for i := 0; i < b.N; i++ {
		buf = buf[:0]
		for _, v := range benchValues {
			buf = protowire.AppendVarint(buf, v)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	var encoded []byte
	for _, v := range benchValues {
		encoded = Append(encoded, v)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := encoded
		for len(data) > 0 {
			_, n, err := Decode(data)
			if err != nil {
				b.Fatal(err)
			}
			data = data[n:]
		}
	}
}

func BenchmarkProtowireConsumeVarint(b *testing.B) {
	var encoded []byte
	for _, v := range benchValues {
		encoded = protowire.AppendVarint(encoded, v)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := encoded
		for len(data) > 0 {
			_, n := protowire.ConsumeVarint(data)
			if n < 0 {
				b.Fatal(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
}
