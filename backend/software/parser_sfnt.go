package software

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphfield/internal/field"
)

// sfntParser implements FontParser using golang.org/x/image/font/sfnt.
type sfntParser struct{}

// Parse implements FontParser.Parse.
func (sfntParser) Parse(data []byte) (ParsedFont, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("software: failed to parse font: %w", err)
	}
	return &sfntFont{font: f}, nil
}

// sfntFont implements ParsedFont using sfnt.Font.
// The buffer is shared, so every access holds mu.
type sfntFont struct {
	mu   sync.Mutex
	font *sfnt.Font
	buf  sfnt.Buffer
}

// UnitsPerEm implements ParsedFont.UnitsPerEm.
func (f *sfntFont) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

// Glyph implements ParsedFont.Glyph.
func (f *sfntFont) Glyph(r rune) (*field.Shape, float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return nil, 0, false
	}

	// At ppem == upem one font unit is one pixel, so 26.6 values are
	// font units times 64.
	upem := int(f.font.UnitsPerEm())
	ppem := fixed.I(upem)
	segments, err := f.font.LoadGlyph(&f.buf, idx, ppem, nil)
	if err != nil {
		slogger().Debug("software: sfnt glyph load failed", "rune", r, "err", err)
		return nil, 0, false
	}
	advance, err := f.font.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
	if err != nil {
		return nil, 0, false
	}

	scale := 1 / (64 * float64(upem))
	// sfnt uses y-down coordinates.
	pt := func(p fixed.Point26_6) field.Point {
		return field.Point{X: float64(p.X) * scale, Y: -float64(p.Y) * scale}
	}

	b := field.NewBuilder()
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			b.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			b.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			b.QuadTo(pt(seg.Args[0]), pt(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			b.CubicTo(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	return b.Shape(), float64(advance) * scale, true
}
