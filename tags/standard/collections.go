package standard

import (
	"maps"
	"slices"

	"github.com/anirudhraja/iltags/ilint"
	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/wire"
)

// readCount reads an element count and rejects counts that cannot fit in
// the remaining payload, given that every element takes at least one byte.
func readCount(r *wire.LimitedReader) (uint64, error) {
	count, err := wire.ReadILInt(r)
	if err != nil {
		return 0, err
	}
	if count > r.Available() {
		return 0, wire.Corrupted("%d elements in %d bytes", count, r.Available())
	}
	return count, nil
}

// ILIntArrayTag holds a list of unsigned values: an ILInt count followed by
// one ILInt per value. OID tags share the layout.
type ILIntArrayTag struct {
	tags.Base
	values []uint64
}

// NewILIntArrayTag returns a populated ILInt array tag. values is copied.
func NewILIntArrayTag(values []uint64) *ILIntArrayTag {
	return newILIntArray(ILIntArrayTagID, values)
}

// NewOIDTag returns a populated OID tag, e.g. 1.3.6.1 as {1, 3, 6, 1}.
func NewOIDTag(arcs []uint64) *ILIntArrayTag {
	return newILIntArray(OIDTagID, arcs)
}

func newILIntArray(id uint64, values []uint64) *ILIntArrayTag {
	t := &ILIntArrayTag{Base: tags.NewBase(id)}
	t.Set(values)
	return t
}

func ilintArrayCreator(id uint64) tags.Tag {
	return &ILIntArrayTag{Base: tags.NewBase(id)}
}

// Values returns the values. The slice belongs to the tag.
func (t *ILIntArrayTag) Values() []uint64 {
	return t.values
}

// Set replaces the values with a copy of values.
func (t *ILIntArrayTag) Set(values []uint64) {
	t.values = slices.Clone(values)
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *ILIntArrayTag) ValueSize() uint64 {
	size := uint64(ilint.EncodedSize(uint64(len(t.values))))
	for _, v := range t.values {
		size += uint64(ilint.EncodedSize(v))
	}
	return size
}

// SerializeValue implements tags.Tag.
func (t *ILIntArrayTag) SerializeValue(w wire.Writer) error {
	if err := wire.WriteILInt(w, uint64(len(t.values))); err != nil {
		return err
	}
	for _, v := range t.values {
		if err := wire.WriteILInt(w, v); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeValue implements tags.Tag.
func (t *ILIntArrayTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	lr := wire.NewLimitedReader(r, valueSize)
	count, err := readCount(lr)
	if err != nil {
		return err
	}
	values := make([]uint64, count)
	for i := range values {
		if values[i], err = wire.ReadILInt(lr); err != nil {
			return err
		}
	}
	t.values = values
	t.MarkPopulated()
	return nil
}

// TagSeqTag holds a list of tags written back to back, without a count.
type TagSeqTag struct {
	tags.Base
	items []tags.Tag
}

// NewTagSeqTag returns a populated tag sequence.
func NewTagSeqTag(items ...tags.Tag) *TagSeqTag {
	t := &TagSeqTag{Base: tags.NewBase(TagSeqTagID)}
	t.Set(items)
	return t
}

func tagSeqCreator(id uint64) tags.Tag {
	return &TagSeqTag{Base: tags.NewBase(id)}
}

// Items returns the tags. The slice belongs to the tag.
func (t *TagSeqTag) Items() []tags.Tag {
	return t.items
}

// Set replaces the tags.
func (t *TagSeqTag) Set(items []tags.Tag) {
	t.items = slices.Clone(items)
	t.MarkPopulated()
}

// Append adds tags at the end.
func (t *TagSeqTag) Append(items ...tags.Tag) {
	t.items = append(t.items, items...)
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *TagSeqTag) ValueSize() uint64 {
	return tagsSize(t.items)
}

// SerializeValue implements tags.Tag.
func (t *TagSeqTag) SerializeValue(w wire.Writer) error {
	return serializeAll(w, t.items)
}

// DeserializeValue implements tags.Tag.
func (t *TagSeqTag) DeserializeValue(d tags.Decoder, valueSize uint64, r wire.Reader) error {
	lr := wire.NewLimitedReader(r, valueSize)
	var items []tags.Tag
	for !lr.Empty() {
		item, err := d.Deserialize(lr)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	t.items = items
	t.MarkPopulated()
	return nil
}

// TagArrayTag holds a counted list of tags.
type TagArrayTag struct {
	tags.Base
	items []tags.Tag
}

// NewTagArrayTag returns a populated tag array.
func NewTagArrayTag(items ...tags.Tag) *TagArrayTag {
	t := &TagArrayTag{Base: tags.NewBase(TagArrayTagID)}
	t.Set(items)
	return t
}

func tagArrayCreator(id uint64) tags.Tag {
	return &TagArrayTag{Base: tags.NewBase(id)}
}

// Items returns the tags. The slice belongs to the tag.
func (t *TagArrayTag) Items() []tags.Tag {
	return t.items
}

// Set replaces the tags.
func (t *TagArrayTag) Set(items []tags.Tag) {
	t.items = slices.Clone(items)
	t.MarkPopulated()
}

// Append adds tags at the end.
func (t *TagArrayTag) Append(items ...tags.Tag) {
	t.items = append(t.items, items...)
	t.MarkPopulated()
}

// ValueSize implements tags.Tag.
func (t *TagArrayTag) ValueSize() uint64 {
	return uint64(ilint.EncodedSize(uint64(len(t.items)))) + tagsSize(t.items)
}

// SerializeValue implements tags.Tag.
func (t *TagArrayTag) SerializeValue(w wire.Writer) error {
	if err := wire.WriteILInt(w, uint64(len(t.items))); err != nil {
		return err
	}
	return serializeAll(w, t.items)
}

// DeserializeValue implements tags.Tag.
func (t *TagArrayTag) DeserializeValue(d tags.Decoder, valueSize uint64, r wire.Reader) error {
	lr := wire.NewLimitedReader(r, valueSize)
	count, err := readCount(lr)
	if err != nil {
		return err
	}
	items := make([]tags.Tag, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := d.Deserialize(lr)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	t.items = items
	t.MarkPopulated()
	return nil
}

func tagsSize(items []tags.Tag) uint64 {
	var size uint64
	for _, item := range items {
		size += tags.Size(item)
	}
	return size
}

func serializeAll(w wire.Writer, items []tags.Tag) error {
	for _, item := range items {
		if err := tags.Serialize(item, w); err != nil {
			return err
		}
	}
	return nil
}

// DictTag maps strings to tags. Entries are written in insertion order;
// a decoded dictionary keeps the order it was read in, so it re-encodes to
// the same bytes.
type DictTag struct {
	tags.Base
	keys    []string
	entries map[string]tags.Tag
}

// NewDictTag returns a populated, empty dictionary.
func NewDictTag() *DictTag {
	return NewDictTagID(DictTagID)
}

// NewDictTagID returns a populated, empty dictionary under id, for
// applications that give their own records an identifier.
func NewDictTagID(id uint64) *DictTag {
	t := &DictTag{Base: tags.NewBase(id), entries: make(map[string]tags.Tag)}
	t.MarkPopulated()
	return t
}

// DictCreator creates dictionaries under any identifier.
func DictCreator(id uint64) tags.Tag {
	return &DictTag{Base: tags.NewBase(id), entries: make(map[string]tags.Tag)}
}

// Len returns the number of entries.
func (t *DictTag) Len() int {
	return len(t.keys)
}

// Get returns the tag stored under key.
func (t *DictTag) Get(key string) (tags.Tag, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Put stores v under key. A new key goes last; an existing one keeps its
// place.
func (t *DictTag) Put(key string, v tags.Tag) {
	if t.entries == nil {
		t.entries = make(map[string]tags.Tag)
	}
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = v
	t.MarkPopulated()
}

// Delete removes key.
func (t *DictTag) Delete(key string) {
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in encoding order.
func (t *DictTag) Keys() []string {
	return slices.Clone(t.keys)
}

// ValueSize implements tags.Tag.
func (t *DictTag) ValueSize() uint64 {
	size := uint64(ilint.EncodedSize(uint64(len(t.keys))))
	for _, k := range t.keys {
		size += stringTagSize(k) + tags.Size(t.entries[k])
	}
	return size
}

// SerializeValue implements tags.Tag.
func (t *DictTag) SerializeValue(w wire.Writer) error {
	if err := wire.WriteILInt(w, uint64(len(t.keys))); err != nil {
		return err
	}
	for _, k := range t.keys {
		if err := writeStringTag(w, k); err != nil {
			return err
		}
		if err := tags.Serialize(t.entries[k], w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeValue implements tags.Tag.
func (t *DictTag) DeserializeValue(d tags.Decoder, valueSize uint64, r wire.Reader) error {
	lr := wire.NewLimitedReader(r, valueSize)
	count, err := readCount(lr)
	if err != nil {
		return err
	}
	keys := make([]string, 0, min(count, 1024))
	entries := make(map[string]tags.Tag, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		k, err := readStringTag(lr)
		if err != nil {
			return err
		}
		if _, dup := entries[k]; dup {
			return wire.Corrupted("duplicate dictionary key %q", k)
		}
		v, err := d.Deserialize(lr)
		if err != nil {
			return err
		}
		keys = append(keys, k)
		entries[k] = v
	}
	t.keys = keys
	t.entries = entries
	t.MarkPopulated()
	return nil
}

// StringDictTag maps strings to strings. It is binary compatible with a
// DictTag whose values are all string tags, and orders its entries the
// same way.
type StringDictTag struct {
	tags.Base
	keys    []string
	entries map[string]string
}

// NewStringDictTag returns a populated dictionary holding a copy of
// entries, in increasing key order.
func NewStringDictTag(entries map[string]string) *StringDictTag {
	t := &StringDictTag{Base: tags.NewBase(StringDictTagID)}
	t.keys = slices.Sorted(maps.Keys(entries))
	t.entries = maps.Clone(entries)
	if t.entries == nil {
		t.entries = make(map[string]string)
	}
	t.MarkPopulated()
	return t
}

func stringDictCreator(id uint64) tags.Tag {
	return &StringDictTag{Base: tags.NewBase(id), entries: make(map[string]string)}
}

// Len returns the number of entries.
func (t *StringDictTag) Len() int {
	return len(t.keys)
}

// Get returns the value stored under key.
func (t *StringDictTag) Get(key string) (string, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Put stores v under key. A new key goes last; an existing one keeps its
// place.
func (t *StringDictTag) Put(key, v string) {
	if t.entries == nil {
		t.entries = make(map[string]string)
	}
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = v
	t.MarkPopulated()
}

// Delete removes key.
func (t *StringDictTag) Delete(key string) {
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in encoding order.
func (t *StringDictTag) Keys() []string {
	return slices.Clone(t.keys)
}

// Map returns a copy of the entries.
func (t *StringDictTag) Map() map[string]string {
	return maps.Clone(t.entries)
}

// ValueSize implements tags.Tag.
func (t *StringDictTag) ValueSize() uint64 {
	size := uint64(ilint.EncodedSize(uint64(len(t.keys))))
	for _, k := range t.keys {
		size += stringTagSize(k) + stringTagSize(t.entries[k])
	}
	return size
}

// SerializeValue implements tags.Tag.
func (t *StringDictTag) SerializeValue(w wire.Writer) error {
	if err := wire.WriteILInt(w, uint64(len(t.keys))); err != nil {
		return err
	}
	for _, k := range t.keys {
		if err := writeStringTag(w, k); err != nil {
			return err
		}
		if err := writeStringTag(w, t.entries[k]); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeValue implements tags.Tag.
func (t *StringDictTag) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	lr := wire.NewLimitedReader(r, valueSize)
	count, err := readCount(lr)
	if err != nil {
		return err
	}
	keys := make([]string, 0, min(count, 1024))
	entries := make(map[string]string, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		k, err := readStringTag(lr)
		if err != nil {
			return err
		}
		if _, dup := entries[k]; dup {
			return wire.Corrupted("duplicate dictionary key %q", k)
		}
		v, err := readStringTag(lr)
		if err != nil {
			return err
		}
		keys = append(keys, k)
		entries[k] = v
	}
	t.keys = keys
	t.entries = entries
	t.MarkPopulated()
	return nil
}
