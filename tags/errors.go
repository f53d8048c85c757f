package tags

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors specific to tags and registries. Stream level kinds
// (wire.ErrUnexpectedEnd, wire.ErrCorruptedData, ...) pass through the
// package unchanged and are matched with errors.Is as well.
var (
	// ErrInconsistentSize means a tag wrote a different number of payload
	// bytes than its ValueSize declared, or an implicit tag declared a size
	// its identifier does not allow.
	ErrInconsistentSize = errors.New("tags: inconsistent value size")

	// ErrUnexpectedTag means a specific identifier was expected and another
	// one was found.
	ErrUnexpectedTag = errors.New("tags: unexpected tag")

	// ErrAlreadyRegistered means the identifier already has a creator.
	ErrAlreadyRegistered = errors.New("tags: identifier already registered")

	// ErrSealed means the registry no longer accepts registrations.
	ErrSealed = errors.New("tags: registry sealed")

	// ErrUnknownTag is returned by strict decoders for identifiers without
	// a creator.
	ErrUnknownTag = errors.New("tags: unknown tag")

	// ErrUnpopulated means a tag without a value was serialized.
	ErrUnpopulated = errors.New("tags: tag not populated")

	// ErrInvalidTag means the identifier or value cannot form a valid tag.
	ErrInvalidTag = errors.New("tags: invalid tag")
)

// TagError reports a failure inside nested tags. Path lists the tag
// identifiers from the outermost tag down to the one that failed.
type TagError struct {
	Path []uint64 // e.g. [30, 21, 17]
	Err  error    // underlying error
}

// Error implements the error interface.
func (e *TagError) Error() string {
	if len(e.Path) == 0 {
		return e.Err.Error()
	}
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return fmt.Sprintf("error at tag path %s: %v", strings.Join(parts, "/"), e.Err)
}

// Unwrap returns the underlying error.
func (e *TagError) Unwrap() error {
	return e.Err
}

// wrapWithTag prepends id to the path of err.
func wrapWithTag(err error, id uint64) error {
	if err == nil {
		return nil
	}

	if te, ok := err.(*TagError); ok {
		return &TagError{
			Path: append([]uint64{id}, te.Path...),
			Err:  te.Err,
		}
	}

	return &TagError{
		Path: []uint64{id},
		Err:  err,
	}
}
