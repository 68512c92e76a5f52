// Package backend defines the computational backend contract used by
// glyphfield and a registry of backend implementations.
//
// A backend owns every resource involved in generating a glyph: engines,
// parsed fonts, glyph shapes and raw memory. Resources are referenced by
// opaque handles ([EngineHandle], [FontHandle], [ShapeHandle]) and buffers
// by [Ptr] offsets into a little-endian memory region. Callers create and
// release resources explicitly; nothing is garbage collected.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The pure-Go backend registers itself on import:
//
//	import _ "github.com/gogpu/glyphfield/backend/software"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b := backend.Default()
//	b := backend.Get("software")
//
// # Memory
//
// Values are exchanged through memory obtained with Malloc and accessed
// with View. [PutFloat64], [Float64At] and [Float32s] encode and decode
// the little-endian layout:
//
//	p := b.Malloc(32)
//	defer b.Free(p)
//	b.ShapeGetBounds(shape, p)
//	left := backend.Float64At(b.View(p, 32), 0)
package backend
