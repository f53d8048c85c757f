// Package standard implements the standard ILTags catalog: the implicit
// numeric tags, the explicit byte, string and number tags, and the
// container tags, plus a registry pre-populated with all of them.
package standard

// Implicit tag identifiers.
const (
	NullTagID        uint64 = 0
	BoolTagID        uint64 = 1
	Int8TagID        uint64 = 2
	Uint8TagID       uint64 = 3
	Int16TagID       uint64 = 4
	Uint16TagID      uint64 = 5
	Int32TagID       uint64 = 6
	Uint32TagID      uint64 = 7
	Int64TagID       uint64 = 8
	Uint64TagID      uint64 = 9
	ILIntTagID       uint64 = 10
	Binary32TagID    uint64 = 11
	Binary64TagID    uint64 = 12
	Binary128TagID   uint64 = 13
	SignedILIntTagID uint64 = 14
)

// Explicit tag identifiers.
const (
	BytesTagID      uint64 = 16
	StringTagID     uint64 = 17
	BigIntTagID     uint64 = 18
	BigDecTagID     uint64 = 19
	ILIntArrayTagID uint64 = 20
	TagArrayTagID   uint64 = 21
	TagSeqTagID     uint64 = 22
	RangeTagID      uint64 = 23
	VersionTagID    uint64 = 24
	OIDTagID        uint64 = 25
	DictTagID       uint64 = 30
	StringDictTagID uint64 = 31
)
