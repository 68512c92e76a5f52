package atlas

import "errors"

// Sentinel errors for atlas package.
var (
	// ErrAllocationFailed is returned when a glyph does not fit in the atlas.
	ErrAllocationFailed = errors.New("atlas: failed to allocate glyph in atlas")

	// ErrChannelMismatch is returned when a glyph's channel count differs
	// from the atlas.
	ErrChannelMismatch = errors.New("atlas: channel count mismatch")

	// ErrInvalidResult is returned when a glyph result is nil or its pixel
	// buffer does not match its dimensions.
	ErrInvalidResult = errors.New("atlas: invalid glyph result")

	// ErrDuplicateKey is returned when a key is added twice.
	ErrDuplicateKey = errors.New("atlas: duplicate key")
)

// ConfigError represents an atlas configuration error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
