package glyphfield

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/glyphfield/backend"
)

// Scratch sizes in backend memory.
const (
	advanceSize = 8     // one float64
	boundsSize  = 4 * 8 // left, bottom, right, top as float64
)

// Generate renders the distance field of r with parameters p.
//
// It returns (nil, nil) when no font is loaded or the font has no glyph
// for r. Errors are reserved for invalid parameters, lifecycle misuse
// and backend allocation or rasterization failures. Every backend
// resource acquired during the call is released before it returns.
func (s *Session) Generate(r rune, p Params) (*Result, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if s.font == 0 {
		return nil, nil
	}

	key := cacheKey{r: r, params: p, fontGen: s.fontGen}
	if s.results != nil {
		if res, ok := s.results.Get(key); ok {
			return res.Clone(), nil
		}
	}

	res, err := s.generate(r, p)
	if err != nil || res == nil {
		return res, err
	}
	if s.results != nil {
		s.results.Set(key, res.Clone())
	}
	return res, nil
}

// GenerateString renders the first character of str after Unicode NFC
// normalization, so a base letter followed by a combining mark resolves
// to the precomposed character when one exists.
func (s *Session) GenerateString(str string, p Params) (*Result, error) {
	if str == "" {
		return nil, ErrEmptyString
	}
	var it norm.Iter
	it.InitString(norm.NFC, str)
	seg := string(it.Next())
	r := []rune(seg)[0]
	return s.Generate(r, p)
}

func (s *Session) generate(r rune, p Params) (*Result, error) {
	sc := newScope(s.b)
	defer sc.release()

	shape, err := sc.shape()
	if err != nil {
		return nil, err
	}
	advancePtr, err := sc.malloc(advanceSize)
	if err != nil {
		return nil, err
	}
	if !s.b.ShapeLoadGlyph(shape, s.font, r, advancePtr) {
		Logger().Debug("glyphfield: glyph not found", "rune", fmt.Sprintf("%U", r))
		return nil, nil
	}
	advance, err := s.readFloat64(advancePtr, 0)
	if err != nil {
		return nil, err
	}

	s.b.ShapeNormalize(shape)
	s.colorEdges(shape, p)

	boundsPtr, err := sc.malloc(boundsSize)
	if err != nil {
		return nil, err
	}
	s.b.ShapeGetBounds(shape, boundsPtr)
	view := s.b.View(boundsPtr, boundsSize)
	if view == nil {
		return nil, fmt.Errorf("glyphfield: bounds: %w", backend.ErrOutOfBounds)
	}
	b := Bounds{
		Left:   backend.Float64At(view, 0),
		Bottom: backend.Float64At(view, 8),
		Right:  backend.Float64At(view, 16),
		Top:    backend.Float64At(view, 24),
	}

	displayW, displayH := DisplaySize(b)
	w, h := BufferSize(b, p)
	tx, ty := Placement(b, p)
	channels := p.Mode.Channels()

	if w > MaxBufferDim || h > MaxBufferDim {
		return nil, fmt.Errorf("glyphfield: %U at scale %v, padding %v: %w (max %d)",
			r, p.PxScale, p.PxPadding, ErrFieldTooLarge, MaxBufferDim)
	}
	size, ok := backend.ByteLen(w, h, channels)
	if !ok {
		return nil, fmt.Errorf("glyphfield: %U buffer %dx%dx%d: %w", r, w, h, channels, ErrFieldTooLarge)
	}
	Logger().Debug("glyphfield: rasterizing",
		"rune", fmt.Sprintf("%U", r), "mode", p.Mode, "width", w, "height", h, "bytes", size)
	pixelsPtr, err := sc.malloc(size)
	if err != nil {
		return nil, err
	}
	err = s.b.Rasterize(backend.RasterRequest{
		Mode:            p.Mode,
		Shape:           shape,
		Width:           w,
		Height:          h,
		Out:             pixelsPtr,
		RangeEm:         RangeEm(p),
		Scale:           p.PxScale,
		TX:              tx,
		TY:              ty,
		ErrorCorrection: p.ErrorCorrection,
		Overlap:         p.Overlap,
	})
	if err != nil {
		return nil, fmt.Errorf("glyphfield: rasterize %U: %w", r, err)
	}
	pixels := s.b.View(pixelsPtr, size)
	if pixels == nil {
		return nil, fmt.Errorf("glyphfield: pixels: %w", backend.ErrOutOfBounds)
	}

	return &Result{
		Pixels:        backend.Float32s(pixels),
		Width:         w,
		Height:        h,
		DisplayWidth:  displayW,
		DisplayHeight: displayH,
		Channels:      channels,
		Advance:       advance,
		Bounds:        b,
	}, nil
}

// colorEdges applies the coloring strategy selected by p.
func (s *Session) colorEdges(shape backend.ShapeHandle, p Params) {
	switch p.Coloring {
	case ColoringSimple:
		s.b.ShapeColorEdgesSimple(shape, p.AngleThreshold, p.Seed)
	case ColoringDistance:
		s.b.ShapeColorEdgesByDistance(shape, p.AngleThreshold, p.Seed)
	default:
		s.b.ShapeColorEdgesInktrap(shape, inktrapCornerAngle, p.Seed)
	}
}

func (s *Session) readFloat64(p backend.Ptr, off int) (float64, error) {
	view := s.b.View(p, off+8)
	if view == nil {
		return 0, fmt.Errorf("glyphfield: read %d: %w", p, backend.ErrOutOfBounds)
	}
	return backend.Float64At(view, off), nil
}
