package glyphfield

import "errors"

// Sentinel errors for glyphfield package.
var (
	// ErrNotInitialized is returned when a session is used before Initialize.
	ErrNotInitialized = errors.New("glyphfield: session not initialized")

	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("glyphfield: session already initialized")

	// ErrDisposed is returned when a disposed session is used.
	ErrDisposed = errors.New("glyphfield: session disposed")

	// ErrAllocationFailed is returned when the backend cannot allocate memory.
	ErrAllocationFailed = errors.New("glyphfield: backend allocation failed")

	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("glyphfield: empty font data")

	// ErrEmptyString is returned by GenerateString for an empty string.
	ErrEmptyString = errors.New("glyphfield: empty string")

	// ErrFieldTooLarge is returned when a glyph's field buffer would exceed
	// MaxBufferDim in either dimension.
	ErrFieldTooLarge = errors.New("glyphfield: field buffer too large")

	// ErrFontRejected is the cause of a FontLoadError when the backend
	// returned a null font handle.
	ErrFontRejected = errors.New("glyphfield: backend rejected font data")
)

// InitError is returned when the backend fails to start an engine.
// The session stays uninitialized; the failure is not retried.
type InitError struct {
	Backend string
	Err     error
}

func (e *InitError) Error() string {
	return "glyphfield: backend " + e.Backend + " failed to start: " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

// FontLoadError is returned when font bytes cannot be loaded.
// After a FontLoadError the session has no font.
type FontLoadError struct {
	Reason string
	Err    error
}

func (e *FontLoadError) Error() string {
	if e.Err == nil {
		return "glyphfield: font load failed: " + e.Reason
	}
	return "glyphfield: font load failed: " + e.Reason + ": " + e.Err.Error()
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// ParamError represents a parameter validation error.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return "glyphfield: invalid params." + e.Field + ": " + e.Reason
}
