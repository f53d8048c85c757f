package tags

import "github.com/anirudhraja/iltags/ilint"

// Identifier ranges.
const (
	// MaxImplicitID is the largest implicit identifier. Implicit tags carry
	// no length field.
	MaxImplicitID uint64 = 15

	// MaxReservedID is the largest identifier reserved for standard tags.
	MaxReservedID uint64 = 31

	// UndefinedImplicitID has no framing rule and never appears on the wire.
	UndefinedImplicitID uint64 = 15
)

// frame describes how the payload of an implicit tag is delimited.
type frame struct {
	size    uint64 // fixed payload size
	ilint   bool   // payload is a single ILInt and delimits itself
	defined bool
}

// implicitFrames is the only place implicit payload sizes are defined.
var implicitFrames = [MaxImplicitID + 1]frame{
	0:  {size: 0, defined: true}, // null
	1:  {size: 1, defined: true}, // bool
	2:  {size: 1, defined: true}, // int8
	3:  {size: 1, defined: true}, // uint8
	4:  {size: 2, defined: true}, // int16
	5:  {size: 2, defined: true}, // uint16
	6:  {size: 4, defined: true}, // int32
	7:  {size: 4, defined: true}, // uint32
	8:  {size: 8, defined: true}, // int64
	9:  {size: 8, defined: true}, // uint64
	10: {ilint: true, defined: true},
	11: {size: 4, defined: true},  // binary32
	12: {size: 8, defined: true},  // binary64
	13: {size: 16, defined: true}, // binary128
	14: {ilint: true, defined: true},
}

// IsImplicit reports whether id is an implicit identifier (0 to 15).
func IsImplicit(id uint64) bool {
	return id <= MaxImplicitID
}

// IsReserved reports whether id is reserved for standard tags (0 to 31).
func IsReserved(id uint64) bool {
	return id <= MaxReservedID
}

// IsExplicit reports whether tags with this identifier carry a length field.
func IsExplicit(id uint64) bool {
	return id > MaxImplicitID
}

// ImplicitValueSize returns the fixed payload size of an implicit
// identifier. It returns false for explicit identifiers, for the
// self-delimited identifiers 10 and 14 and for the undefined identifier 15.
func ImplicitValueSize(id uint64) (uint64, bool) {
	if !IsImplicit(id) {
		return 0, false
	}
	f := implicitFrames[id]
	if !f.defined || f.ilint {
		return 0, false
	}
	return f.size, true
}

// IsSelfDelimited reports whether the payload of id is a single ILInt whose
// first byte determines its size.
func IsSelfDelimited(id uint64) bool {
	return IsImplicit(id) && implicitFrames[id].ilint
}

// IsDefined reports whether id has a framing rule. Only 15 does not.
func IsDefined(id uint64) bool {
	return !IsImplicit(id) || implicitFrames[id].defined
}

// HeaderSize returns the number of bytes written before the payload of a tag.
func HeaderSize(id, valueSize uint64) uint64 {
	size := uint64(ilint.EncodedSize(id))
	if IsExplicit(id) {
		size += uint64(ilint.EncodedSize(valueSize))
	}
	return size
}

// checkValueSize verifies that an implicit tag declares the size its
// identifier requires.
func checkValueSize(id, valueSize uint64) error {
	if !IsDefined(id) {
		return ErrInvalidTag
	}
	if fixed, ok := ImplicitValueSize(id); ok && fixed != valueSize {
		return ErrInconsistentSize
	}
	if IsSelfDelimited(id) && (valueSize < 1 || valueSize > ilint.MaxSize) {
		return ErrInconsistentSize
	}
	return nil
}
