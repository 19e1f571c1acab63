package selection

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates an index outside [0, limit).
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports the indices a call rejected.
type IndexError struct {
	// Indices are the rejected indices, in call order.
	Indices []int
	// Limit is the set's limit at the time of the call.
	Limit int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if len(e.Indices) == 1 {
		return fmt.Sprintf("selection index %d out of range [0, %d)", e.Indices[0], e.Limit)
	}
	return fmt.Sprintf("%d selection indices out of range [0, %d): %v", len(e.Indices), e.Limit, e.Indices)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
