package analytics

import "errors"

// Custom errors
var (
	ErrInsufficientData = errors.New("insufficient observations")
	ErrInvalidWindow    = errors.New("window must be at least 2")
	ErrLengthMismatch   = errors.New("series lengths do not match")
)
