package standard

import (
	"maps"
	"slices"
	"sync"

	"github.com/anirudhraja/iltags/tags"
)

// creators lists the creator of every standard identifier.
var creators = map[uint64]tags.Creator{
	NullTagID:        valueCreator(nullCodec),
	BoolTagID:        valueCreator(boolCodec),
	Int8TagID:        valueCreator(int8Codec),
	Uint8TagID:       valueCreator(uint8Codec),
	Int16TagID:       valueCreator(int16Codec),
	Uint16TagID:      valueCreator(uint16Codec),
	Int32TagID:       valueCreator(int32Codec),
	Uint32TagID:      valueCreator(uint32Codec),
	Int64TagID:       valueCreator(int64Codec),
	Uint64TagID:      valueCreator(uint64Codec),
	ILIntTagID:       ilintCreator,
	Binary32TagID:    valueCreator(float32Codec),
	Binary64TagID:    valueCreator(float64Codec),
	Binary128TagID:   valueCreator(binary128Codec),
	SignedILIntTagID: tags.SignedILIntCreator,

	BytesTagID:      bytesCreator,
	StringTagID:     stringCreator,
	BigIntTagID:     bigIntCreator,
	BigDecTagID:     bigDecCreator,
	ILIntArrayTagID: ilintArrayCreator,
	TagArrayTagID:   tagArrayCreator,
	TagSeqTagID:     tagSeqCreator,
	RangeTagID:      tags.PayloadCreator(newRange),
	VersionTagID:    tags.PayloadCreator(newVersion),
	OIDTagID:        ilintArrayCreator,
	DictTagID:       DictCreator,
	StringDictTagID: stringDictCreator,
}

// IDs returns the standard identifiers in increasing order.
func IDs() []uint64 {
	return slices.Sorted(maps.Keys(creators))
}

// Register adds every standard creator to r.
func Register(r *tags.Registry) error {
	for _, id := range IDs() {
		if err := r.Register(id, creators[id]); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns an open registry holding the standard catalog. Add
// application tags to it, then Seal it.
func NewRegistry(opts ...tags.Option) *tags.Registry {
	r := tags.NewRegistry(opts...)
	if err := Register(r); err != nil {
		// A fresh registry cannot hold conflicting entries.
		panic(err)
	}
	return r
}

var (
	factoryOnce sync.Once
	factory     *tags.Factory
)

// Factory returns the process-wide sealed factory for the standard
// catalog, built with tags.DefaultConfig on first use.
func Factory() *tags.Factory {
	factoryOnce.Do(func() {
		factory = NewRegistry().Seal()
	})
	return factory
}
