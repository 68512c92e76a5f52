package glyphfield

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/gogpu/glyphfield/backend"
	_ "github.com/gogpu/glyphfield/backend/software" // registers the software backend
	"github.com/gogpu/glyphfield/internal/cache"
)

// State is the lifecycle state of a Session.
type State int

// Session states.
const (
	// StateUninitialized is the state of a new session.
	StateUninitialized State = iota
	// StateReady means the engine is running and no font is loaded.
	StateReady
	// StateLoaded means a font is loaded and glyphs can be generated.
	StateLoaded
	// StateDisposed is terminal.
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateLoaded:
		return "Loaded"
	case StateDisposed:
		return "Disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// cacheKey identifies a generation result. fontGen changes on every
// font load, so results never outlive the font they came from.
type cacheKey struct {
	r       rune
	params  Params
	fontGen uint64
}

// Session owns one backend engine and at most one loaded font.
//
// A Session is not safe for concurrent use. Use one session per
// goroutine, or serialize calls. Dispose must be called exactly once
// when the session is no longer needed.
type Session struct {
	b       backend.Backend
	opts    sessionOptions
	state   State
	engine  backend.EngineHandle
	font    backend.FontHandle
	fontGen uint64
	results *cache.Cache[cacheKey, *Result]
}

// NewSession creates an uninitialized session over b.
func NewSession(b backend.Backend, opts ...SessionOption) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Session{b: b, opts: o}
	if o.cacheSize > 0 {
		s.results = cache.New[cacheKey, *Result](o.cacheSize)
	}
	return s
}

// NewDefaultSession creates an uninitialized session over a new instance
// of the default registered backend.
func NewDefaultSession(opts ...SessionOption) (*Session, error) {
	b, err := backend.Open("")
	if err != nil {
		return nil, fmt.Errorf("glyphfield: %w", err)
	}
	return NewSession(b, opts...), nil
}

// Backend returns the backend the session drives.
func (s *Session) Backend() backend.Backend { return s.b }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// HasFont reports whether a font is loaded.
func (s *Session) HasFont() bool { return s.font != 0 }

// Initialize starts the backend engine. A start failure is returned as
// an *InitError and leaves the session uninitialized; it is not retried.
func (s *Session) Initialize() error {
	switch s.state {
	case StateDisposed:
		return ErrDisposed
	case StateReady, StateLoaded:
		return ErrAlreadyInitialized
	}

	h, err := s.b.EngineCreate()
	if err == nil && h == 0 {
		err = backend.ErrBackendNotAvailable
	}
	if err != nil {
		Logger().Debug("glyphfield: engine start failed", "backend", s.b.Name(), "err", err)
		return &InitError{Backend: s.b.Name(), Err: err}
	}

	s.engine = h
	s.state = StateReady
	attach(s.b)
	Logger().Debug("glyphfield: session initialized", "backend", s.b.Name(), "engine", h)
	return nil
}

// LoadFont parses data as a font and makes it the session's font.
// Any previously loaded font is destroyed first, so after a failed load
// the session has no font.
func (s *Session) LoadFont(data []byte) error {
	if err := s.checkReady(); err != nil {
		return err
	}

	s.dropFont()

	if len(data) == 0 {
		return &FontLoadError{Reason: "no data", Err: ErrEmptyFontData}
	}

	fs := s.b.Staging()
	name := fmt.Sprintf("%s-%d-%d.bin", s.opts.stagingName, s.engine, s.fontGen)
	if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
		return &FontLoadError{Reason: "staging failed", Err: err}
	}
	defer func() {
		if err := fs.Remove(name); err != nil {
			Logger().Warn("glyphfield: staged font not removed", "name", name, "err", err)
		}
	}()

	h := s.b.FontLoad(s.engine, name)
	if h == 0 {
		return &FontLoadError{Reason: "backend returned a null font handle", Err: ErrFontRejected}
	}

	s.font = h
	s.state = StateLoaded
	Logger().Info("glyphfield: font loaded", "font", h, "bytes", len(data))
	return nil
}

// LoadFontFrom reads all of r and loads it with LoadFont.
func (s *Session) LoadFontFrom(r io.Reader) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		s.dropFont()
		return &FontLoadError{Reason: "read failed", Err: err}
	}
	return s.LoadFont(data)
}

// Dispose destroys the font and the engine. The session is unusable
// afterwards. Dispose is idempotent.
func (s *Session) Dispose() {
	if s.state == StateDisposed {
		return
	}
	s.dropFont()
	if s.engine != 0 {
		s.b.EngineDestroy(s.engine)
		Logger().Debug("glyphfield: engine destroyed", "engine", s.engine)
		s.engine = 0
		detach(s.b)
	}
	s.state = StateDisposed
}

// dropFont destroys the loaded font, if any, and invalidates cached
// results.
func (s *Session) dropFont() {
	if s.font != 0 {
		s.b.FontDestroy(s.font)
		Logger().Debug("glyphfield: font destroyed", "font", s.font)
		s.font = 0
	}
	s.fontGen++
	if s.results != nil {
		s.results.Clear()
	}
	if s.state == StateLoaded {
		s.state = StateReady
	}
}

// checkReady returns the lifecycle error for the current state, if any.
func (s *Session) checkReady() error {
	switch s.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateDisposed:
		return ErrDisposed
	}
	return nil
}
