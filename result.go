package glyphfield

import "slices"

// Result is a generated distance field and its layout metadata.
// It owns its pixel data and holds no backend memory.
type Result struct {
	// Pixels holds Width*Height*Channels values, row-major with
	// interleaved channels. Row 0 is the bottom row of the glyph.
	// Values map distance d as d/range + 0.5, so 0.5 is the outline
	// and larger values are inside. They are not clamped.
	Pixels []float32

	// Width and Height are the buffer dimensions in pixels.
	Width, Height int

	// DisplayWidth and DisplayHeight are layout sizes at LayoutScale
	// units per em.
	DisplayWidth, DisplayHeight float64

	// Channels is 1 for SDF and PSDF, 3 for MSDF and 4 for MTSDF.
	Channels int

	// Advance is the horizontal advance in em units.
	Advance float64

	// Bounds is the glyph bounding box in em units.
	Bounds Bounds
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Pixels = slices.Clone(r.Pixels)
	return &c
}

// At returns the channel values of the pixel at (x, y), y counted from
// the bottom row. It returns nil for coordinates outside the buffer.
func (r *Result) At(x, y int) []float32 {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return nil
	}
	i := (y*r.Width + x) * r.Channels
	return r.Pixels[i : i+r.Channels : i+r.Channels]
}
