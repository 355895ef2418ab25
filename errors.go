package gif

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedData    = errors.New("gif: truncated data")
	ErrInvalidHeader    = errors.New("gif: invalid header")
	ErrUnknownBlock     = errors.New("gif: unknown block")
	ErrUnknownExtension = errors.New("gif: unknown extension")
	ErrDecode           = errors.New("gif: decode failed")
	ErrFrameIndex       = errors.New("gif: frame index out of range")
)

// FormatError reports a structural fault found while parsing,
// with the byte offset at which it was detected.
type FormatError struct {
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatError(offset int, err error) error {
	return &FormatError{Offset: offset, Err: err}
}
