// Package iltags bundles a sealed tag factory and a name catalog behind one
// entry point for encoding, decoding and inspecting ILTags data.
package iltags

import (
	"io"

	"github.com/pkg/errors"

	"github.com/anirudhraja/iltags/catalog"
	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/tags/prototag"
	"github.com/anirudhraja/iltags/tags/standard"
	"github.com/anirudhraja/iltags/wire"
)

// ILTags decodes with the standard tags, the well-known protobuf tags and
// any custom creators given to New. It is safe for concurrent use.
type ILTags struct {
	factory *tags.Factory
	catalog *catalog.Catalog
}

// Option configures New.
type Option func(*options)

type options struct {
	tagOpts  []tags.Option
	catalog  *catalog.Catalog
	creators []customCreator
}

type customCreator struct {
	id      uint64
	name    string
	creator tags.Creator
}

// WithTagOptions passes options to the underlying registry.
func WithTagOptions(opts ...tags.Option) Option {
	return func(o *options) { o.tagOpts = append(o.tagOpts, opts...) }
}

// WithCatalog names ids after c instead of the standard catalog. c is
// copied, not modified.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithCreator registers a creator for id. A non-empty name is added to the
// catalog.
func WithCreator(id uint64, name string, c tags.Creator) Option {
	return func(o *options) {
		o.creators = append(o.creators, customCreator{id: id, name: name, creator: c})
	}
}

// New builds and seals the factory.
func New(opts ...Option) (*ILTags, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	reg := standard.NewRegistry(o.tagOpts...)
	if err := prototag.Register(reg); err != nil {
		return nil, errors.Wrap(err, "register protobuf tags")
	}

	cat := catalog.Standard()
	if o.catalog != nil {
		cat = catalog.New()
		if err := cat.Merge(o.catalog); err != nil {
			return nil, errors.Wrap(err, "copy catalog")
		}
	}
	for id, name := range map[uint64]string{
		prototag.TimestampTagID: "timestamp",
		prototag.DurationTagID:  "duration",
	} {
		if _, named := cat.Name(id); !named {
			if err := cat.Add(id, name); err != nil {
				return nil, errors.Wrap(err, "name protobuf tags")
			}
		}
	}

	for _, c := range o.creators {
		if err := reg.Register(c.id, c.creator); err != nil {
			return nil, errors.Wrapf(err, "register tag %d", c.id)
		}
		if c.name != "" {
			if err := cat.Add(c.id, c.name); err != nil {
				return nil, errors.Wrapf(err, "name tag %d", c.id)
			}
		}
	}

	return &ILTags{factory: reg.Seal(), catalog: cat}, nil
}

// Factory returns the sealed factory.
func (p *ILTags) Factory() *tags.Factory { return p.factory }

// Catalog returns the names in use. Do not modify it.
func (p *ILTags) Catalog() *catalog.Catalog { return p.catalog }

// Name returns the name of id, or "tag<id>".
func (p *ILTags) Name(id uint64) string { return p.catalog.Label(id) }

// ===== ENCODING =====

// Encode returns the encoding of t.
func (p *ILTags) Encode(t tags.Tag) ([]byte, error) {
	data, err := tags.Marshal(t)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", p.Name(t.ID()))
	}
	return data, nil
}

// EncodeAll concatenates the encodings of ts.
func (p *ILTags) EncodeAll(ts ...tags.Tag) ([]byte, error) {
	var size uint64
	for _, t := range ts {
		if t.Populated() {
			size += tags.Size(t)
		}
	}
	w := wire.NewBufferWriterSize(int(size))
	if err := p.serialize(w, ts); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeTo writes ts to w.
func (p *ILTags) EncodeTo(w io.Writer, ts ...tags.Tag) error {
	sw := wire.NewStreamWriter(w)
	if err := p.serialize(sw, ts); err != nil {
		return err
	}
	return errors.Wrap(sw.Flush(), "flush")
}

func (p *ILTags) serialize(w wire.Writer, ts []tags.Tag) error {
	for i, t := range ts {
		if err := tags.Serialize(t, w); err != nil {
			return errors.Wrapf(err, "encode tag #%d (%s)", i, p.Name(t.ID()))
		}
	}
	return nil
}

// ===== DECODING =====

// Decode decodes exactly one tag from data.
func (p *ILTags) Decode(data []byte) (tags.Tag, error) {
	t, err := tags.Unmarshal(p.factory, data)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return t, nil
}

// DecodeExpected decodes exactly one tag with identifier id from data.
func (p *ILTags) DecodeExpected(data []byte, id uint64) (tags.Tag, error) {
	r := wire.NewBufferReader(data)
	t, err := p.factory.DeserializeExpected(r, id)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", p.Name(id))
	}
	if r.Remaining() != 0 {
		return nil, errors.Wrapf(wire.Corrupted("%d trailing bytes", r.Remaining()), "decode %s", p.Name(id))
	}
	return t, nil
}

// DecodeAll decodes every tag in data.
func (p *ILTags) DecodeAll(data []byte) ([]tags.Tag, error) {
	ts, err := tags.UnmarshalAll(p.factory, data)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return ts, nil
}

// DecodeFrom decodes tags from r until it ends.
func (p *ILTags) DecodeFrom(r io.Reader) ([]tags.Tag, error) {
	sr := wire.NewStreamReader(r)
	var out []tags.Tag
	for {
		end, err := sr.AtEnd()
		if err != nil {
			return nil, errors.Wrapf(err, "decode at offset %d", sr.Offset())
		}
		if end {
			return out, nil
		}
		offset := sr.Offset()
		t, err := p.factory.Deserialize(sr)
		if err != nil {
			return nil, errors.Wrapf(err, "decode at offset %d", offset)
		}
		out = append(out, t)
	}
}

// Clone returns a deep copy of t.
func (p *ILTags) Clone(t tags.Tag) (tags.Tag, error) {
	c, err := tags.Clone(p.factory, t)
	if err != nil {
		return nil, errors.Wrapf(err, "clone %s", p.Name(t.ID()))
	}
	return c, nil
}

// Equal reports whether a and b have the same encoding.
func (p *ILTags) Equal(a, b tags.Tag) bool {
	return tags.Equal(a, b)
}
