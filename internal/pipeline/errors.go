package pipeline

import "errors"

// Sentinel errors returned by the pipeline stages. Callers should match them
// with errors.Is; stage functions wrap them with the offending values.
var (
	// ErrInvalidDimension reports a zero-sized buffer, a buffer whose pixel
	// slice does not match its dimensions, or two buffers that should share
	// dimensions but do not.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrInvalidParameter reports a kernel or block size that is not odd and
	// positive, or an unknown enum value in Config.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrCoordinateOutOfBounds reports a contour point outside the buffer it
	// is drawn onto.
	ErrCoordinateOutOfBounds = errors.New("coordinate out of bounds")
)
