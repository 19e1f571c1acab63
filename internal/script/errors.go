package script

import "errors"

var (
	// ErrNoPredicate indicates the script does not define selectable(index).
	ErrNoPredicate = errors.New("script does not define selectable(index)")

	// ErrClosed indicates the predicate was used after Close.
	ErrClosed = errors.New("script closed")
)
