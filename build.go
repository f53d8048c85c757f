package iltags

import (
	"encoding/hex"
	"fmt"
	"maps"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/tags/prototag"
	"github.com/anirudhraja/iltags/tags/standard"
)

// BuildYAML builds tags from a YAML sequence of descriptions. Each
// description is a mapping with one key, the tag name or identifier, whose
// value is the tag value:
//
//	- string: hello
//	- uint16: 300
//	- tag_seq:
//	    - bool: true
//	    - bytes: "0a0b"
//	- dict:
//	    name: {string: Alice}
//	- 0x10000: "cafe"
func (p *ILTags) BuildYAML(data []byte) ([]tags.Tag, error) {
	var descs []any
	if err := yaml.Unmarshal(data, &descs); err != nil {
		return nil, errors.Wrap(err, "parse tag descriptions")
	}
	out := make([]tags.Tag, len(descs))
	for i, d := range descs {
		t, err := p.Build(d)
		if err != nil {
			return nil, errors.Wrapf(err, "description #%d", i)
		}
		out[i] = t
	}
	return out, nil
}

// Build builds one tag from a description decoded from YAML or JSON. Tags
// of identifiers without a known plain form take their payload in hex.
func (p *ILTags) Build(desc any) (tags.Tag, error) {
	m, ok := asMap(desc)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("want a mapping with one key, got %v", desc)
	}
	var key string
	var v any
	for key, v = range m {
	}
	id, err := p.catalog.Resolve(key)
	if err != nil {
		return nil, err
	}
	t, err := p.build(id, v)
	if err != nil {
		return nil, errors.Wrap(err, key)
	}
	return t, nil
}

// asMap accepts the mappings decoders produce. yaml.v3 falls back to
// map[any]any when a key is not a string, as with "0x10000:" or "null:".
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, item := range m {
			if k == nil {
				out["null"] = item
				continue
			}
			out[fmt.Sprint(k)] = item
		}
		return out, true
	}
	return nil, false
}

func (p *ILTags) build(id uint64, v any) (tags.Tag, error) {
	switch id {
	case standard.NullTagID:
		if v != nil {
			return nil, fmt.Errorf("null takes no value, got %v", v)
		}
		return standard.NewNullTag(), nil
	case standard.BoolTagID:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want a boolean, got %T", v)
		}
		return standard.NewBoolTag(b), nil
	case standard.Int8TagID:
		n, err := toInt(v, math.MinInt8, math.MaxInt8)
		if err != nil {
			return nil, err
		}
		return standard.NewInt8Tag(int8(n)), nil
	case standard.Uint8TagID:
		n, err := toUint(v, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return standard.NewUint8Tag(uint8(n)), nil
	case standard.Int16TagID:
		n, err := toInt(v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		return standard.NewInt16Tag(int16(n)), nil
	case standard.Uint16TagID:
		n, err := toUint(v, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return standard.NewUint16Tag(uint16(n)), nil
	case standard.Int32TagID:
		n, err := toInt(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return standard.NewInt32Tag(int32(n)), nil
	case standard.Uint32TagID:
		n, err := toUint(v, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return standard.NewUint32Tag(uint32(n)), nil
	case standard.Int64TagID:
		n, err := toInt(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, err
		}
		return standard.NewInt64Tag(n), nil
	case standard.Uint64TagID:
		n, err := toUint(v, math.MaxUint64)
		if err != nil {
			return nil, err
		}
		return standard.NewUint64Tag(n), nil
	case standard.ILIntTagID:
		n, err := toUint(v, math.MaxUint64)
		if err != nil {
			return nil, err
		}
		return standard.NewILIntTag(n), nil
	case standard.SignedILIntTagID:
		n, err := toInt(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, err
		}
		return tags.NewSignedILIntTag(n), nil
	case standard.Binary32TagID:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return standard.NewBinary32Tag(float32(f)), nil
	case standard.Binary64TagID:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return standard.NewBinary64Tag(f), nil
	case standard.Binary128TagID:
		b, err := toHex(v)
		if err != nil {
			return nil, err
		}
		if len(b) != 16 {
			return nil, fmt.Errorf("binary128 needs 16 bytes, got %d", len(b))
		}
		return standard.NewBinary128Tag([16]byte(b)), nil
	case standard.BytesTagID:
		b, err := toHex(v)
		if err != nil {
			return nil, err
		}
		return standard.NewBytesTag(b), nil
	case standard.StringTagID:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", v)
		}
		return standard.NewStringTag(s), nil
	case standard.BigIntTagID:
		n, ok := new(big.Int).SetString(fmt.Sprint(v), 0)
		if !ok {
			return nil, fmt.Errorf("bad integer %v", v)
		}
		return standard.NewBigIntTag(n), nil
	case standard.BigDecTagID:
		unscaled, scale, err := parseDecimal(fmt.Sprint(v))
		if err != nil {
			return nil, err
		}
		return standard.NewBigDecTag(unscaled, scale), nil
	case standard.ILIntArrayTagID:
		values, err := toUints(v)
		if err != nil {
			return nil, err
		}
		return standard.NewILIntArrayTag(values), nil
	case standard.OIDTagID:
		if s, ok := v.(string); ok {
			arcs, err := parseOID(s)
			if err != nil {
				return nil, err
			}
			return standard.NewOIDTag(arcs), nil
		}
		arcs, err := toUints(v)
		if err != nil {
			return nil, err
		}
		return standard.NewOIDTag(arcs), nil
	case standard.TagArrayTagID:
		items, err := p.buildList(v)
		if err != nil {
			return nil, err
		}
		return standard.NewTagArrayTag(items...), nil
	case standard.TagSeqTagID:
		items, err := p.buildList(v)
		if err != nil {
			return nil, err
		}
		return standard.NewTagSeqTag(items...), nil
	case standard.RangeTagID:
		m, ok := asMap(v)
		if !ok {
			return nil, fmt.Errorf("range wants {start, count}, got %T", v)
		}
		start, err := toUint(m["start"], math.MaxUint64)
		if err != nil {
			return nil, errors.Wrap(err, "start")
		}
		count, err := toUint(m["count"], math.MaxUint16)
		if err != nil {
			return nil, errors.Wrap(err, "count")
		}
		return standard.NewRangeTag(start, uint16(count)), nil
	case standard.VersionTagID:
		return buildVersion(v)
	case standard.DictTagID:
		m, ok := asMap(v)
		if !ok {
			return nil, fmt.Errorf("dict wants a mapping, got %T", v)
		}
		d := standard.NewDictTag()
		for _, k := range slices.Sorted(maps.Keys(m)) {
			item, err := p.Build(m[k])
			if err != nil {
				return nil, errors.Wrap(err, k)
			}
			d.Put(k, item)
		}
		return d, nil
	case standard.StringDictTagID:
		m, ok := asMap(v)
		if !ok {
			return nil, fmt.Errorf("string_dict wants a mapping, got %T", v)
		}
		entries := make(map[string]string, len(m))
		for k, item := range m {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: want a string, got %T", k, item)
			}
			entries[k] = s
		}
		return standard.NewStringDictTag(entries), nil
	case prototag.TimestampTagID:
		return buildTimestamp(v)
	case prototag.DurationTagID:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want a duration such as 1m30s, got %T", v)
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, err
		}
		return prototag.NewDurationTag(d), nil
	}

	if !tags.IsExplicit(id) {
		return nil, fmt.Errorf("%w: no plain form for implicit tag %d", tags.ErrInvalidTag, id)
	}
	payload, err := toHex(v)
	if err != nil {
		return nil, err
	}
	return tags.NewRawTag(id, payload)
}

func (p *ILTags) buildList(v any) ([]tags.Tag, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want a sequence, got %T", v)
	}
	items := make([]tags.Tag, len(list))
	for i, d := range list {
		t, err := p.Build(d)
		if err != nil {
			return nil, errors.Wrapf(err, "item #%d", i)
		}
		items[i] = t
	}
	return items, nil
}

func buildVersion(v any) (tags.Tag, error) {
	list, ok := v.([]any)
	if !ok || len(list) != 4 {
		return nil, fmt.Errorf("version wants [major, minor, revision, build], got %v", v)
	}
	var parts [4]int32
	for i, item := range list {
		n, err := toInt(item, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		parts[i] = int32(n)
	}
	return standard.NewVersionTag(parts[0], parts[1], parts[2], parts[3]), nil
}

func buildTimestamp(v any) (tags.Tag, error) {
	switch ts := v.(type) {
	case time.Time:
		// yaml.v3 resolves unquoted timestamps itself.
		return prototag.NewTimestampTag(ts), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, err
		}
		return prototag.NewTimestampTag(parsed), nil
	}
	return nil, fmt.Errorf("want an RFC 3339 timestamp, got %T", v)
}

func toInt(v any, lo, hi int64) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%d out of range [%d, %d]", x, lo, hi)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, fmt.Errorf("want an integer, got %v", x)
		}
		n = int64(x)
	default:
		return 0, fmt.Errorf("want an integer, got %T", v)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func toUint(v any, hi uint64) (uint64, error) {
	var n uint64
	switch x := v.(type) {
	case int:
		if x < 0 {
			return 0, fmt.Errorf("%d is negative", x)
		}
		n = uint64(x)
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("%d is negative", x)
		}
		n = uint64(x)
	case uint64:
		n = x
	case float64:
		if x != math.Trunc(x) || x < 0 || x >= math.MaxUint64 {
			return 0, fmt.Errorf("want an unsigned integer, got %v", x)
		}
		n = uint64(x)
	default:
		return 0, fmt.Errorf("want an unsigned integer, got %T", v)
	}
	if n > hi {
		return 0, fmt.Errorf("%d out of range [0, %d]", n, hi)
	}
	return n, nil
}

func toUints(v any) ([]uint64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want a sequence, got %T", v)
	}
	out := make([]uint64, len(list))
	for i, item := range list {
		n, err := toUint(item, math.MaxUint64)
		if err != nil {
			return nil, errors.Wrapf(err, "item #%d", i)
		}
		out[i] = n
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("want a number, got %T", v)
}

func toHex(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("want hex bytes, got %T", v)
	}
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return nil, errors.Wrap(err, "bad hex")
	}
	return b, nil
}

// parseDecimal splits "-123.45" into -12345 and scale 2.
func parseDecimal(s string) (*big.Int, int32, error) {
	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) > math.MaxInt32 {
		return nil, 0, fmt.Errorf("decimal %q too long", s)
	}
	unscaled, ok := new(big.Int).SetString(intPart+frac, 10)
	if !ok || strings.ContainsAny(frac, "+-") {
		return nil, 0, fmt.Errorf("bad decimal %q", s)
	}
	return unscaled, int32(len(frac)), nil
}

func parseOID(s string) ([]uint64, error) {
	parts := strings.Split(s, ".")
	arcs := make([]uint64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad OID %q", s)
		}
		arcs[i] = n
	}
	return arcs, nil
}
