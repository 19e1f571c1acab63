package dragselect

import "errors"

// Errors returned by configuration parsing and validation.
var (
	// ErrUnknownMode indicates a mode name other than "range" or "path".
	ErrUnknownMode = errors.New("unknown selection mode")

	// ErrInvalidHotspot indicates a hotspot height below HotspotDisabled.
	ErrInvalidHotspot = errors.New("invalid hotspot height")

	// ErrInvalidOffset indicates a negative hotspot offset.
	ErrInvalidOffset = errors.New("invalid hotspot offset")

	// ErrInvalidInterval indicates a non-positive auto-scroll tick interval.
	ErrInvalidInterval = errors.New("invalid tick interval")
)
