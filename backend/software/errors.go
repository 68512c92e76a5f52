package software

import "errors"

// Sentinel errors for software package.
var (
	// ErrHandleSpaceExhausted is returned when no new handle can be issued.
	ErrHandleSpaceExhausted = errors.New("software: handle space exhausted")
)
