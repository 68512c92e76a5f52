package software

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/gogpu/glyphfield/backend"
	"github.com/gogpu/glyphfield/internal/field"
)

func init() {
	backend.Register(backend.NameSoftware, func() backend.Backend {
		return New()
	})
}

// Option configures a software backend.
type Option func(*Backend)

// WithParser selects the font parser by name (ParserSFNT or ParserGoText).
// Unknown names fall back to the default parser.
func WithParser(name string) Option {
	return func(b *Backend) {
		b.parser = name
	}
}

// WithStaging replaces the in-memory staging filesystem.
func WithStaging(fs afero.Fs) Option {
	return func(b *Backend) {
		b.staging = fs
	}
}

// WithMemoryLimit caps the total bytes of live allocations. Malloc
// returns the null pointer once the limit would be exceeded.
func WithMemoryLimit(bytes int) Option {
	return func(b *Backend) {
		b.memoryLimit = bytes
	}
}

// engine is one initialized engine and the fonts bound to it.
type engine struct {
	fonts map[backend.FontHandle]struct{}
}

// loadedFont is a parsed font and the engine that owns it.
type loadedFont struct {
	engine backend.EngineHandle
	font   ParsedFont
}

// Backend is a pure-Go implementation of backend.Backend.
//
// Handles of every kind come from one monotonic counter and are never
// reused. Handle tables are guarded by a mutex, so one Backend may serve
// several engines from different goroutines; a single shape must still
// be used by one goroutine at a time.
type Backend struct {
	mu      sync.Mutex
	nextID  uint32
	engines map[backend.EngineHandle]*engine
	fonts   map[backend.FontHandle]*loadedFont
	shapes  map[backend.ShapeHandle]*field.Shape

	heap        *heap
	staging     afero.Fs
	parser      string
	memoryLimit int
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		engines: make(map[backend.EngineHandle]*engine),
		fonts:   make(map[backend.FontHandle]*loadedFont),
		shapes:  make(map[backend.ShapeHandle]*field.Shape),
		staging: afero.NewMemMapFs(),
		parser:  defaultParserName,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.heap = newHeap(b.memoryLimit)
	return b
}

// Name implements backend.Backend.
func (b *Backend) Name() string {
	return backend.NameSoftware
}

// newID returns the next handle value. Callers hold mu.
func (b *Backend) newID() uint32 {
	b.nextID++
	return b.nextID
}

// EngineCreate implements backend.Backend.
func (b *Backend) EngineCreate() (backend.EngineHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.nextID == ^uint32(0) {
		return 0, ErrHandleSpaceExhausted
	}
	h := backend.EngineHandle(b.newID())
	b.engines[h] = &engine{fonts: make(map[backend.FontHandle]struct{})}
	slogger().Debug("software: engine created", "engine", h)
	return h, nil
}

// EngineDestroy implements backend.Backend.
// Fonts still bound to the engine are destroyed with it.
func (b *Backend) EngineDestroy(h backend.EngineHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.engines[h]
	if !ok {
		slogger().Warn("software: destroy of unknown engine", "engine", h)
		return
	}
	for f := range e.fonts {
		delete(b.fonts, f)
	}
	delete(b.engines, h)
	slogger().Debug("software: engine destroyed", "engine", h, "fonts", len(e.fonts))
}

// Staging implements backend.Backend.
func (b *Backend) Staging() afero.Fs {
	return b.staging
}

// FontLoad implements backend.Backend.
func (b *Backend) FontLoad(h backend.EngineHandle, name string) backend.FontHandle {
	b.mu.Lock()
	_, ok := b.engines[h]
	b.mu.Unlock()
	if !ok {
		slogger().Warn("software: font load on unknown engine", "engine", h)
		return 0
	}

	data, err := afero.ReadFile(b.staging, name)
	if err != nil {
		slogger().Debug("software: staged font not readable", "name", name, "err", err)
		return 0
	}
	parsed, err := getParser(b.parser).Parse(data)
	if err != nil {
		slogger().Debug("software: font parse failed", "name", name, "err", err)
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.engines[h]
	if !ok {
		return 0
	}
	f := backend.FontHandle(b.newID())
	b.fonts[f] = &loadedFont{engine: h, font: parsed}
	e.fonts[f] = struct{}{}
	slogger().Debug("software: font loaded", "font", f, "bytes", len(data), "upem", parsed.UnitsPerEm())
	return f
}

// FontDestroy implements backend.Backend.
func (b *Backend) FontDestroy(h backend.FontHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.fonts[h]
	if !ok {
		slogger().Warn("software: destroy of unknown font", "font", h)
		return
	}
	if e, ok := b.engines[f.engine]; ok {
		delete(e.fonts, h)
	}
	delete(b.fonts, h)
}

// ShapeCreate implements backend.Backend.
func (b *Backend) ShapeCreate() backend.ShapeHandle {
	b.mu.Lock()
	defer b.mu.Unlock()

	h := backend.ShapeHandle(b.newID())
	b.shapes[h] = field.NewShape()
	return h
}

// ShapeFree implements backend.Backend.
func (b *Backend) ShapeFree(h backend.ShapeHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.shapes[h]; !ok {
		slogger().Warn("software: free of unknown shape", "shape", h)
		return
	}
	delete(b.shapes, h)
}

func (b *Backend) shape(h backend.ShapeHandle) *field.Shape {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shapes[h]
}

// ShapeLoadGlyph implements backend.Backend.
func (b *Backend) ShapeLoadGlyph(sh backend.ShapeHandle, fh backend.FontHandle, r rune, advance backend.Ptr) bool {
	b.mu.Lock()
	s := b.shapes[sh]
	f := b.fonts[fh]
	b.mu.Unlock()
	if s == nil || f == nil {
		return false
	}

	glyph, adv, ok := f.font.Glyph(r)
	if !ok {
		return false
	}
	if advance != 0 {
		view := b.heap.view(advance, 8)
		if view == nil {
			return false
		}
		backend.PutFloat64(view, 0, adv)
	}
	s.Contours = glyph.Contours
	return true
}

// ShapeNormalize implements backend.Backend.
func (b *Backend) ShapeNormalize(h backend.ShapeHandle) {
	if s := b.shape(h); s != nil {
		s.Normalize()
	}
}

// ShapeColorEdgesSimple implements backend.Backend.
func (b *Backend) ShapeColorEdgesSimple(h backend.ShapeHandle, angleThreshold float64, seed uint64) {
	if s := b.shape(h); s != nil {
		field.ColorSimple(s, angleThreshold, seed)
	}
}

// ShapeColorEdgesByDistance implements backend.Backend.
func (b *Backend) ShapeColorEdgesByDistance(h backend.ShapeHandle, angleThreshold float64, seed uint64) {
	if s := b.shape(h); s != nil {
		field.ColorByDistance(s, angleThreshold, seed)
	}
}

// ShapeColorEdgesInktrap implements backend.Backend.
func (b *Backend) ShapeColorEdgesInktrap(h backend.ShapeHandle, cornerAngle float64, seed uint64) {
	if s := b.shape(h); s != nil {
		field.ColorInkTrap(s, cornerAngle, seed)
	}
}

// ShapeGetBounds implements backend.Backend.
func (b *Backend) ShapeGetBounds(h backend.ShapeHandle, out backend.Ptr) {
	s := b.shape(h)
	view := b.heap.view(out, 32)
	if s == nil || view == nil {
		slogger().Warn("software: bounds query with invalid shape or buffer", "shape", h, "ptr", out)
		return
	}
	r := s.Bounds()
	backend.PutFloat64(view, 0, r.MinX)
	backend.PutFloat64(view, 8, r.MinY)
	backend.PutFloat64(view, 16, r.MaxX)
	backend.PutFloat64(view, 24, r.MaxY)
}

// Rasterize implements backend.Backend.
func (b *Backend) Rasterize(req backend.RasterRequest) error {
	s := b.shape(req.Shape)
	if s == nil {
		return fmt.Errorf("software: rasterize shape %d: %w", req.Shape, backend.ErrInvalidHandle)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("software: rasterize %dx%d: %w", req.Width, req.Height, field.ErrInvalidRaster)
	}
	size, ok := backend.ByteLen(req.Width, req.Height, req.Mode.Channels())
	if !ok {
		return fmt.Errorf("software: rasterize %dx%d: %w", req.Width, req.Height, field.ErrInvalidRaster)
	}
	view := b.heap.view(req.Out, size)
	if view == nil {
		return fmt.Errorf("software: rasterize into %d (%d bytes): %w", req.Out, size, backend.ErrOutOfBounds)
	}

	pixels := make([]float32, size/4)
	err := field.Rasterize(s, field.Raster{
		Mode:            field.Mode(req.Mode),
		Width:           req.Width,
		Height:          req.Height,
		RangeEm:         req.RangeEm,
		Scale:           req.Scale,
		TX:              req.TX,
		TY:              req.TY,
		ErrorCorrection: field.ErrorCorrection(req.ErrorCorrection),
		Overlap:         req.Overlap,
	}, pixels)
	if err != nil {
		return fmt.Errorf("software: rasterize: %w", err)
	}
	backend.PutFloat32s(view, pixels)
	slogger().Debug("software: rasterized", "shape", req.Shape, "mode", req.Mode,
		"width", req.Width, "height", req.Height, "edges", s.EdgeCount())
	return nil
}

// Malloc implements backend.Backend.
func (b *Backend) Malloc(size int) backend.Ptr {
	p := b.heap.malloc(size)
	if p == 0 {
		slogger().Debug("software: allocation failed", "size", size)
	}
	return p
}

// Free implements backend.Backend.
func (b *Backend) Free(p backend.Ptr) {
	if p == 0 {
		return
	}
	if !b.heap.free(p) {
		slogger().Warn("software: free of unknown pointer", "ptr", p)
	}
}

// View implements backend.Backend.
func (b *Backend) View(p backend.Ptr, size int) []byte {
	return b.heap.view(p, size)
}

// Stats reports live resources.
type Stats struct {
	Engines     int
	Fonts       int
	Shapes      int
	Allocations int
	Bytes       int
}

// Stats returns the number of live resources held by the backend.
func (b *Backend) Stats() Stats {
	b.mu.Lock()
	st := Stats{Engines: len(b.engines), Fonts: len(b.fonts), Shapes: len(b.shapes)}
	b.mu.Unlock()
	st.Allocations, st.Bytes = b.heap.live()
	return st
}
