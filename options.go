package glyphfield

// SessionOption configures a Session during creation.
//
// Example:
//
//	// Default: no result cache
//	s := glyphfield.NewSession(b)
//
//	// Keep up to 256 generated glyphs
//	s := glyphfield.NewSession(b, glyphfield.WithResultCache(256))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	cacheSize   int
	stagingName string
}

// defaultOptions returns the default session options.
func defaultOptions() sessionOptions {
	return sessionOptions{
		cacheSize:   0, // no cache
		stagingName: "font",
	}
}

// WithResultCache enables a per-session cache of up to n generation
// results. Results are keyed by character, parameters and loaded font,
// and the cache is cleared whenever a font is loaded. n <= 0 disables
// caching.
func WithResultCache(n int) SessionOption {
	return func(o *sessionOptions) {
		o.cacheSize = n
	}
}

// WithStagingName sets the base name used for font files staged into
// the backend filesystem. Staged names also carry the engine handle and
// font generation, so sessions sharing one backend never collide.
func WithStagingName(name string) SessionOption {
	return func(o *sessionOptions) {
		if name != "" {
			o.stagingName = name
		}
	}
}
