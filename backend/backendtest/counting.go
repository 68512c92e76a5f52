// Package backendtest provides an instrumented backend wrapper for tests.
//
// Counting forwards every call to a real backend while tracking live
// allocations and handles, recording the call sequence and optionally
// injecting failures.
package backendtest

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/glyphfield/backend"
)

// Counts is a snapshot of outstanding resources.
type Counts struct {
	Allocations int
	Shapes      int
	Fonts       int
	Engines     int
}

// Counting wraps a backend and tracks resource balance.
// Failure injection fields may be set before use.
type Counting struct {
	backend.Backend

	// EngineErr, if set, is returned by EngineCreate instead of creating an engine.
	EngineErr error

	// RasterizeErr, if set, is returned by Rasterize without rasterizing.
	RasterizeErr error

	// FailFontLoad makes FontLoad return the null handle.
	FailFontLoad bool

	// FailMallocAt makes the n-th Malloc call (1-based) return null.
	// Zero disables injection.
	FailMallocAt int

	mu          sync.Mutex
	calls       []string
	mallocCalls int
	allocs      map[backend.Ptr]int
	shapes      map[backend.ShapeHandle]struct{}
	fonts       map[backend.FontHandle]struct{}
	engines     map[backend.EngineHandle]struct{}
}

// New wraps b.
func New(b backend.Backend) *Counting {
	return &Counting{
		Backend: b,
		allocs:  make(map[backend.Ptr]int),
		shapes:  make(map[backend.ShapeHandle]struct{}),
		fonts:   make(map[backend.FontHandle]struct{}),
		engines: make(map[backend.EngineHandle]struct{}),
	}
}

func (c *Counting) record(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded call sequence.
func (c *Counting) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// ResetCalls clears the call log.
func (c *Counting) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// Outstanding returns the resources created through the wrapper and not
// yet released.
func (c *Counting) Outstanding() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Counts{
		Allocations: len(c.allocs),
		Shapes:      len(c.shapes),
		Fonts:       len(c.fonts),
		Engines:     len(c.engines),
	}
}

// SetLogger forwards the logger to the wrapped backend if it accepts one.
func (c *Counting) SetLogger(l *slog.Logger) {
	if ls, ok := c.Backend.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}

// EngineCreate implements backend.Backend.
func (c *Counting) EngineCreate() (backend.EngineHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("EngineCreate")
	if c.EngineErr != nil {
		return 0, c.EngineErr
	}
	h, err := c.Backend.EngineCreate()
	if err == nil && h != 0 {
		c.engines[h] = struct{}{}
	}
	return h, err
}

// EngineDestroy implements backend.Backend.
func (c *Counting) EngineDestroy(h backend.EngineHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("EngineDestroy(%d)", h)
	delete(c.engines, h)
	c.Backend.EngineDestroy(h)
}

// FontLoad implements backend.Backend.
func (c *Counting) FontLoad(e backend.EngineHandle, name string) backend.FontHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("FontLoad(%d)", e)
	if c.FailFontLoad {
		return 0
	}
	h := c.Backend.FontLoad(e, name)
	if h != 0 {
		c.fonts[h] = struct{}{}
	}
	return h
}

// FontDestroy implements backend.Backend.
func (c *Counting) FontDestroy(h backend.FontHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("FontDestroy(%d)", h)
	delete(c.fonts, h)
	c.Backend.FontDestroy(h)
}

// ShapeCreate implements backend.Backend.
func (c *Counting) ShapeCreate() backend.ShapeHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ShapeCreate")
	h := c.Backend.ShapeCreate()
	if h != 0 {
		c.shapes[h] = struct{}{}
	}
	return h
}

// ShapeFree implements backend.Backend.
func (c *Counting) ShapeFree(h backend.ShapeHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ShapeFree(%d)", h)
	delete(c.shapes, h)
	c.Backend.ShapeFree(h)
}

// ShapeLoadGlyph implements backend.Backend.
func (c *Counting) ShapeLoadGlyph(sh backend.ShapeHandle, f backend.FontHandle, r rune, advance backend.Ptr) bool {
	c.mu.Lock()
	c.record("ShapeLoadGlyph(%U)", r)
	c.mu.Unlock()
	return c.Backend.ShapeLoadGlyph(sh, f, r, advance)
}

// ShapeNormalize implements backend.Backend.
func (c *Counting) ShapeNormalize(h backend.ShapeHandle) {
	c.mu.Lock()
	c.record("ShapeNormalize")
	c.mu.Unlock()
	c.Backend.ShapeNormalize(h)
}

// ShapeColorEdgesSimple implements backend.Backend.
func (c *Counting) ShapeColorEdgesSimple(h backend.ShapeHandle, angle float64, seed uint64) {
	c.mu.Lock()
	c.record("ShapeColorEdgesSimple(%g, %d)", angle, seed)
	c.mu.Unlock()
	c.Backend.ShapeColorEdgesSimple(h, angle, seed)
}

// ShapeColorEdgesByDistance implements backend.Backend.
func (c *Counting) ShapeColorEdgesByDistance(h backend.ShapeHandle, angle float64, seed uint64) {
	c.mu.Lock()
	c.record("ShapeColorEdgesByDistance(%g, %d)", angle, seed)
	c.mu.Unlock()
	c.Backend.ShapeColorEdgesByDistance(h, angle, seed)
}

// ShapeColorEdgesInktrap implements backend.Backend.
func (c *Counting) ShapeColorEdgesInktrap(h backend.ShapeHandle, angle float64, seed uint64) {
	c.mu.Lock()
	c.record("ShapeColorEdgesInktrap(%g, %d)", angle, seed)
	c.mu.Unlock()
	c.Backend.ShapeColorEdgesInktrap(h, angle, seed)
}

// ShapeGetBounds implements backend.Backend.
func (c *Counting) ShapeGetBounds(h backend.ShapeHandle, out backend.Ptr) {
	c.mu.Lock()
	c.record("ShapeGetBounds")
	c.mu.Unlock()
	c.Backend.ShapeGetBounds(h, out)
}

// Rasterize implements backend.Backend.
func (c *Counting) Rasterize(req backend.RasterRequest) error {
	c.mu.Lock()
	c.record("Rasterize(%v, %dx%d)", req.Mode, req.Width, req.Height)
	err := c.RasterizeErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.Backend.Rasterize(req)
}

// Malloc implements backend.Backend.
func (c *Counting) Malloc(size int) backend.Ptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Malloc(%d)", size)
	c.mallocCalls++
	if c.FailMallocAt > 0 && c.mallocCalls == c.FailMallocAt {
		return 0
	}
	p := c.Backend.Malloc(size)
	if p != 0 {
		c.allocs[p] = size
	}
	return p
}

// Free implements backend.Backend.
func (c *Counting) Free(p backend.Ptr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Free(%d)", c.allocs[p])
	delete(c.allocs, p)
	c.Backend.Free(p)
}
