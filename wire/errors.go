package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/anirudhraja/iltags/ilint"
)

// Error kinds shared by every reader, writer and codec in this module.
// Match them with errors.Is.
var (
	// ErrUnexpectedEnd means the data ended before an operation could read
	// the bytes it needed. Callers may wait for more data and retry.
	ErrUnexpectedEnd = io.ErrUnexpectedEOF

	// ErrCorruptedData means the bytes were present but invalid.
	ErrCorruptedData = errors.New("corrupted data")

	// ErrValueOverflow means a decoded ILInt or size is out of range.
	ErrValueOverflow = ilint.ErrOverflow

	// ErrCapacityExceeded is returned by bounded writers.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrWriteFailure matches every *IOError produced while writing.
	ErrWriteFailure = errors.New("write failure")

	// ErrReadFailure matches every *IOError produced while reading.
	ErrReadFailure = errors.New("read failure")
)

// IOError wraps an error returned by an underlying io.Reader or io.Writer.
type IOError struct {
	Op  string // "read", "write", "seek" or "flush"
	Err error  // underlying error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s failure: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the failure kind of this error.
func (e *IOError) Is(target error) bool {
	switch target {
	case ErrWriteFailure:
		return e.Op == "write" || e.Op == "flush"
	case ErrReadFailure:
		return e.Op == "read" || e.Op == "seek"
	}
	return false
}

// wrapRead converts an error from an io.Reader into this package's kinds.
func wrapRead(op string, err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEnd
	}
	return &IOError{Op: op, Err: err}
}

// wrapWrite converts an error from an io.Writer into this package's kinds.
func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

// Corrupted builds an ErrCorruptedData error with some context.
func Corrupted(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptedData, fmt.Sprintf(format, args...))
}
