package glyphfield

import "math"

// LayoutScale is the fixed number of display units per em used for
// DisplaySize. It is independent of Params.PxScale, so display sizes stay
// stable when the atlas resolution changes.
const LayoutScale = 40

// Bounds is a glyph bounding box in em units, y up.
type Bounds struct {
	Left, Bottom, Right, Top float64
}

// Width returns Right - Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Top - Bottom.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// DisplaySize returns the layout size of a glyph with the given bounds.
// Both dimensions are at least 1.
func DisplaySize(b Bounds) (w, h float64) {
	return max(1, b.Width()*LayoutScale), max(1, b.Height()*LayoutScale)
}

// MaxBufferDim is the largest field buffer width or height Generate
// accepts.
const MaxBufferDim = 4096

// BufferSize returns the pixel dimensions of the field buffer: the glyph
// extent at PxScale plus PxPadding on every side, rounded up.
// Both dimensions are at least 1. A dimension above MaxBufferDim is
// reported as MaxBufferDim+1.
func BufferSize(b Bounds, p Params) (w, h int) {
	return bufferDim(b.Width()*p.PxScale + 2*p.PxPadding),
		bufferDim(b.Height()*p.PxScale + 2*p.PxPadding)
}

func bufferDim(v float64) int {
	v = math.Ceil(v)
	switch {
	case math.IsNaN(v) || v > MaxBufferDim:
		return MaxBufferDim + 1
	case v < 1:
		return 1
	}
	return int(v)
}

// Placement returns the translation, in em units, that moves the glyph's
// bottom-left corner to PxPadding pixels from the buffer origin.
func Placement(b Bounds, p Params) (tx, ty float64) {
	pad := p.PxPadding / p.PxScale
	return -b.Left + pad, -b.Bottom + pad
}

// RangeEm returns the distance range converted from pixels to em units.
func RangeEm(p Params) float64 {
	return p.PxRange / p.PxScale
}
