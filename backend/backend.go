package backend

import (
	"errors"

	"github.com/spf13/afero"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidHandle is returned when an operation receives a stale or null handle.
	ErrInvalidHandle = errors.New("backend: invalid handle")

	// ErrOutOfBounds is returned when a pointer and size do not describe live memory.
	ErrOutOfBounds = errors.New("backend: memory access out of bounds")
)

// EngineHandle identifies one initialized backend engine. Zero is null.
type EngineHandle uint32

// FontHandle identifies a parsed font bound to an engine. Zero is null.
type FontHandle uint32

// ShapeHandle identifies one glyph outline. Zero is null.
type ShapeHandle uint32

// Ptr is the offset of an allocation in backend memory. Zero is null.
type Ptr uint32

// RasterRequest describes one distance field rasterization.
// Out must point to Width*Height*Mode.Channels() float32 values.
type RasterRequest struct {
	Mode            Mode
	Shape           ShapeHandle
	Width, Height   int
	Out             Ptr
	RangeEm         float64
	Scale           float64
	TX, TY          float64
	ErrorCorrection ErrorCorrection
	Overlap         bool
}

// Backend is the computational engine behind glyph generation.
// It parses fonts, extracts outlines, colors edges and rasterizes
// distance fields. Resources are referenced by handles and buffers by
// pointers into backend memory; callers own releasing everything they
// create.
//
// Backends are registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "software").
	Name() string

	// EngineCreate starts a new engine instance.
	EngineCreate() (EngineHandle, error)

	// EngineDestroy releases an engine and every font still bound to it.
	EngineDestroy(EngineHandle)

	// Staging returns the filesystem that FontLoad reads font files from.
	Staging() afero.Fs

	// FontLoad parses the staged font file name. It returns the null
	// handle if the file is missing or cannot be parsed.
	FontLoad(engine EngineHandle, name string) FontHandle

	// FontDestroy releases a font.
	FontDestroy(FontHandle)

	// ShapeCreate allocates an empty shape.
	ShapeCreate() ShapeHandle

	// ShapeFree releases a shape.
	ShapeFree(ShapeHandle)

	// ShapeLoadGlyph loads the outline of r into shape and writes the
	// advance width as a float64 to advance. It reports false if the
	// font has no glyph for r.
	ShapeLoadGlyph(shape ShapeHandle, font FontHandle, r rune, advance Ptr) bool

	// ShapeNormalize prepares the shape for coloring and rasterization.
	ShapeNormalize(ShapeHandle)

	// ShapeColorEdgesSimple colors edges by switching at every corner.
	ShapeColorEdgesSimple(shape ShapeHandle, angleThreshold float64, seed uint64)

	// ShapeColorEdgesByDistance colors edges to keep same-colored edges apart.
	ShapeColorEdgesByDistance(shape ShapeHandle, angleThreshold float64, seed uint64)

	// ShapeColorEdgesInktrap colors edges treating ink traps as minor corners.
	ShapeColorEdgesInktrap(shape ShapeHandle, cornerAngle float64, seed uint64)

	// ShapeGetBounds writes left, bottom, right, top as four
	// little-endian float64 values to out.
	ShapeGetBounds(shape ShapeHandle, out Ptr)

	// Rasterize renders the distance field described by req.
	Rasterize(req RasterRequest) error

	// Malloc allocates size bytes of backend memory. It returns the null
	// pointer on failure.
	Malloc(size int) Ptr

	// Free releases memory returned by Malloc.
	Free(Ptr)

	// View returns a byte view of size bytes at p, or nil if the range
	// is not live memory.
	View(p Ptr, size int) []byte
}
