package math

import "errors"

var (
	// ErrZeroMagnitude is returned when an operation needs a non-zero
	// magnitude, such as inversion or division.
	ErrZeroMagnitude = errors.New("zero magnitude")

	// ErrInvalidBounds is returned by the clamp family when a high bound is
	// below its low bound.
	ErrInvalidBounds = errors.New("highest allowed value cannot be less than the lowest allowed value")

	// ErrMalformed is returned when a textual value cannot be parsed.
	ErrMalformed = errors.New("malformed value")
)
