package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrace indicates the document is not a trace.
	ErrInvalidTrace = errors.New("invalid trace")

	// ErrUnsupportedVersion indicates a trace written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported trace version")
)

// EventError reports a malformed event.
type EventError struct {
	Index   int
	Kind    string
	Message string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("trace event %d (%s): %s", e.Index, e.Kind, e.Message)
}

// Unwrap returns ErrInvalidTrace.
func (e *EventError) Unwrap() error {
	return ErrInvalidTrace
}
