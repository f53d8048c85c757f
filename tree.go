package iltags

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/tags/standard"
)

// Node is a decoded tag in plain Go values, ready for encoding/json,
// yaml.v3 or cbor. Value holds:
//
//   - nil for null tags
//   - bool, int64, uint64 or float64 for numbers
//   - string for text, and for bytes, binary128 and raw payloads in hex,
//     big integers in decimal and big decimals as "123.45"
//   - []uint64 for ILInt arrays and a dotted string for OIDs
//   - []*Node for tag arrays and sequences
//   - map[string]*Node for dictionaries and map[string]string for string
//     dictionaries
//   - map[string]any for ranges, versions and protobuf messages
type Node struct {
	ID    uint64 `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Value any    `json:"value" yaml:"value"`
	Raw   bool   `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Parse decodes every tag in data into nodes.
func (p *ILTags) Parse(data []byte) ([]*Node, error) {
	ts, err := p.DecodeAll(data)
	if err != nil {
		return nil, err
	}
	nodes := make([]*Node, len(ts))
	for i, t := range ts {
		nodes[i] = p.Tree(t)
	}
	return nodes, nil
}

// Tree converts t and everything it contains into nodes.
func (p *ILTags) Tree(t tags.Tag) *Node {
	n := &Node{ID: t.ID()}
	if name, ok := p.catalog.Name(t.ID()); ok {
		n.Name = name
	}
	n.Value, n.Raw = p.value(t)
	return n
}

// value returns the plain value of t and whether it is an undecoded
// payload.
func (p *ILTags) value(t tags.Tag) (any, bool) {
	switch v := t.(type) {
	case *standard.NullTag:
		return nil, false
	case *standard.BoolTag:
		return v.Value(), false
	case *standard.Int8Tag:
		return int64(v.Value()), false
	case *standard.Uint8Tag:
		return uint64(v.Value()), false
	case *standard.Int16Tag:
		return int64(v.Value()), false
	case *standard.Uint16Tag:
		return uint64(v.Value()), false
	case *standard.Int32Tag:
		return int64(v.Value()), false
	case *standard.Uint32Tag:
		return uint64(v.Value()), false
	case *standard.Int64Tag:
		return v.Value(), false
	case *standard.Uint64Tag:
		return v.Value(), false
	case *standard.ILIntTag:
		return v.Value(), false
	case *tags.SignedILIntTag:
		return v.Value(), false
	case *standard.Binary32Tag:
		return float64(v.Value()), false
	case *standard.Binary64Tag:
		return v.Value(), false
	case *standard.Binary128Tag:
		b := v.Value()
		return hex.EncodeToString(b[:]), false
	case *standard.BytesTag:
		return hex.EncodeToString(v.Value()), false
	case *standard.StringTag:
		return v.Value(), false
	case *standard.BigIntTag:
		return v.Value().String(), false
	case *standard.BigDecTag:
		return formatDecimal(v.Unscaled(), v.Scale()), false
	case *standard.ILIntArrayTag:
		if v.ID() == standard.OIDTagID {
			return formatOID(v.Values()), false
		}
		return v.Values(), false
	case *standard.TagArrayTag:
		return p.nodes(v.Items()), false
	case *standard.TagSeqTag:
		return p.nodes(v.Items()), false
	case *standard.DictTag:
		m := make(map[string]*Node, v.Len())
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			m[k] = p.Tree(item)
		}
		return m, false
	case *standard.StringDictTag:
		return v.Map(), false
	case *standard.RangeTag:
		r := v.Value()
		return map[string]any{"start": r.Start, "count": uint64(r.Count)}, false
	case *standard.VersionTag:
		ver := v.Value()
		return map[string]any{
			"major":    int64(ver.Major),
			"minor":    int64(ver.Minor),
			"revision": int64(ver.Revision),
			"build":    int64(ver.Build),
		}, false
	case interface{ Proto() proto.Message }:
		return messageValue(v.Proto()), false
	case *tags.UnknownTag:
		return hex.EncodeToString(v.Payload()), true
	case *tags.RawTag:
		return hex.EncodeToString(v.Payload()), true
	}
	// Custom tags with no plain form are shown by their encoding.
	data, err := tags.Marshal(t)
	if err != nil {
		return nil, true
	}
	return hex.EncodeToString(data[tags.HeaderSize(t.ID(), t.ValueSize()):]), true
}

func (p *ILTags) nodes(items []tags.Tag) []*Node {
	out := make([]*Node, len(items))
	for i, item := range items {
		out[i] = p.Tree(item)
	}
	return out
}

// messageValue renders a protobuf message through its JSON mapping.
func messageValue(m proto.Message) any {
	data, err := protojson.Marshal(m)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}

// formatDecimal renders unscaled * 10^-scale without exponent.
func formatDecimal(unscaled *big.Int, scale int32) string {
	digits := new(big.Int).Abs(unscaled).String()
	sign := ""
	if unscaled.Sign() < 0 {
		sign = "-"
	}
	if scale <= 0 {
		if unscaled.Sign() == 0 {
			return "0"
		}
		return sign + digits + strings.Repeat("0", int(-scale))
	}
	s := int(scale)
	if len(digits) <= s {
		digits = strings.Repeat("0", s-len(digits)+1) + digits
	}
	return sign + digits[:len(digits)-s] + "." + digits[len(digits)-s:]
}

func formatOID(arcs []uint64) string {
	parts := make([]string, len(arcs))
	for i, a := range arcs {
		parts[i] = strconv.FormatUint(a, 10)
	}
	return strings.Join(parts, ".")
}
