package software

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/glyphfield/internal/field"
)

// gotextParser implements FontParser using github.com/go-text/typesetting.
type gotextParser struct{}

// Parse implements FontParser.Parse.
func (gotextParser) Parse(data []byte) (ParsedFont, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("software: failed to parse font: %w", err)
	}
	return &gotextFont{face: face}, nil
}

// gotextFont implements ParsedFont using font.Face.
// Face keeps internal caches, so every access holds mu.
type gotextFont struct {
	mu   sync.Mutex
	face *font.Face
}

// UnitsPerEm implements ParsedFont.UnitsPerEm.
func (f *gotextFont) UnitsPerEm() int {
	return int(f.face.Upem())
}

// Glyph implements ParsedFont.Glyph.
// Glyphs without a vector outline (bitmap or SVG only) load as empty shapes.
func (f *gotextFont) Glyph(r rune) (*field.Shape, float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gid, ok := f.face.NominalGlyph(r)
	if !ok || gid == 0 {
		return nil, 0, false
	}

	scale := 1 / float64(f.face.Upem())
	advance := float64(f.face.HorizontalAdvance(gid)) * scale

	outline, ok := f.face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		return field.NewShape(), advance, true
	}

	pt := func(p font.SegmentPoint) field.Point {
		return field.Point{X: float64(p.X) * scale, Y: float64(p.Y) * scale}
	}

	b := field.NewBuilder()
	for _, seg := range outline.Segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			b.MoveTo(pt(seg.Args[0]))
		case ot.SegmentOpLineTo:
			b.LineTo(pt(seg.Args[0]))
		case ot.SegmentOpQuadTo:
			b.QuadTo(pt(seg.Args[0]), pt(seg.Args[1]))
		case ot.SegmentOpCubeTo:
			b.CubicTo(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	return b.Shape(), advance, true
}
