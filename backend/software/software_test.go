package software

import (
	"errors"
	"math"
	"testing"

	"github.com/spf13/afero"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphfield/backend"
	"github.com/gogpu/glyphfield/internal/field"
)

// loadRegular stages Go Regular and returns an engine and font handle.
func loadRegular(t *testing.T, b *Backend) (backend.EngineHandle, backend.FontHandle) {
	t.Helper()
	e, err := b.EngineCreate()
	if err != nil {
		t.Fatalf("EngineCreate() error = %v", err)
	}
	if err := afero.WriteFile(b.Staging(), "regular.ttf", goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	f := b.FontLoad(e, "regular.ttf")
	if f == 0 {
		t.Fatal("FontLoad() returned null handle")
	}
	return e, f
}

func bounds(t *testing.T, b *Backend, sh backend.ShapeHandle) [4]float64 {
	t.Helper()
	p := b.Malloc(32)
	defer b.Free(p)
	b.ShapeGetBounds(sh, p)
	v := b.View(p, 32)
	return [4]float64{
		backend.Float64At(v, 0), backend.Float64At(v, 8),
		backend.Float64At(v, 16), backend.Float64At(v, 24),
	}
}

func TestRegistered(t *testing.T) {
	b := backend.Get(backend.NameSoftware)
	if b == nil {
		t.Fatal("software backend not registered")
	}
	if _, ok := b.(*Backend); !ok {
		t.Errorf("Get(software) = %T, want *Backend", b)
	}
}

func TestParsers(t *testing.T) {
	got := Parsers()
	if len(got) < 2 || got[0] != ParserGoText || got[1] != ParserSFNT {
		t.Errorf("Parsers() = %v, want [gotext sfnt ...]", got)
	}
}

func TestLoadGlyph(t *testing.T) {
	for _, parser := range []string{ParserSFNT, ParserGoText} {
		t.Run(parser, func(t *testing.T) {
			b := New(WithParser(parser))
			_, f := loadRegular(t, b)

			sh := b.ShapeCreate()
			defer b.ShapeFree(sh)
			adv := b.Malloc(8)
			defer b.Free(adv)

			if !b.ShapeLoadGlyph(sh, f, 'A', adv) {
				t.Fatal("ShapeLoadGlyph('A') = false")
			}
			advance := backend.Float64At(b.View(adv, 8), 0)
			if advance <= 0.3 || advance >= 1 {
				t.Errorf("advance = %v, want within (0.3, 1) em", advance)
			}

			b.ShapeNormalize(sh)
			l, bt, r, tp := unpack(bounds(t, b, sh))
			if math.Abs(bt) > 0.01 {
				t.Errorf("bottom = %v, want on the baseline", bt)
			}
			if tp < 0.5 || tp > 1 {
				t.Errorf("top = %v, want cap height within (0.5, 1)", tp)
			}
			if l < -0.05 || r <= l || r > advance+0.05 {
				t.Errorf("horizontal bounds = [%v, %v], advance %v", l, r, advance)
			}
		})
	}
}

func unpack(v [4]float64) (l, b, r, t float64) {
	return v[0], v[1], v[2], v[3]
}

func TestParsersAgree(t *testing.T) {
	var results [2][4]float64
	for i, parser := range []string{ParserSFNT, ParserGoText} {
		b := New(WithParser(parser))
		_, f := loadRegular(t, b)
		sh := b.ShapeCreate()
		if !b.ShapeLoadGlyph(sh, f, 'g', 0) {
			t.Fatalf("%s: ShapeLoadGlyph('g') = false", parser)
		}
		b.ShapeNormalize(sh)
		results[i] = bounds(t, b, sh)
		b.ShapeFree(sh)
	}
	for i := range results[0] {
		if math.Abs(results[0][i]-results[1][i]) > 1e-3 {
			t.Errorf("bounds[%d]: sfnt %v, gotext %v", i, results[0][i], results[1][i])
		}
	}
}

func TestLoadGlyphMissing(t *testing.T) {
	b := New()
	_, f := loadRegular(t, b)
	sh := b.ShapeCreate()
	defer b.ShapeFree(sh)

	if b.ShapeLoadGlyph(sh, f, '\U0001F600', 0) {
		t.Error("ShapeLoadGlyph(U+1F600) = true, want false")
	}
	if b.ShapeLoadGlyph(sh, 0, 'A', 0) {
		t.Error("ShapeLoadGlyph with null font = true, want false")
	}
}

func TestLoadGlyphSpace(t *testing.T) {
	b := New()
	_, f := loadRegular(t, b)
	sh := b.ShapeCreate()
	defer b.ShapeFree(sh)

	if !b.ShapeLoadGlyph(sh, f, ' ', 0) {
		t.Fatal("ShapeLoadGlyph(' ') = false")
	}
	b.ShapeNormalize(sh)
	if got := bounds(t, b, sh); got != [4]float64{} {
		t.Errorf("space bounds = %v, want zero", got)
	}
}

func TestFontLoadFailures(t *testing.T) {
	b := New()
	e, err := b.EngineCreate()
	if err != nil {
		t.Fatal(err)
	}
	if f := b.FontLoad(e, "missing.ttf"); f != 0 {
		t.Errorf("FontLoad(missing) = %d, want 0", f)
	}
	if err := afero.WriteFile(b.Staging(), "junk.ttf", []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if f := b.FontLoad(e, "junk.ttf"); f != 0 {
		t.Errorf("FontLoad(junk) = %d, want 0", f)
	}
	if f := b.FontLoad(0, "junk.ttf"); f != 0 {
		t.Errorf("FontLoad(null engine) = %d, want 0", f)
	}
}

func TestEngineDestroyReleasesFonts(t *testing.T) {
	b := New()
	e, _ := loadRegular(t, b)
	if st := b.Stats(); st.Engines != 1 || st.Fonts != 1 {
		t.Fatalf("Stats() = %+v, want 1 engine and 1 font", st)
	}
	b.EngineDestroy(e)
	if st := b.Stats(); st.Engines != 0 || st.Fonts != 0 {
		t.Errorf("Stats() after EngineDestroy = %+v, want none", st)
	}
}

func TestHandlesNeverReused(t *testing.T) {
	b := New()
	first := b.ShapeCreate()
	b.ShapeFree(first)
	second := b.ShapeCreate()
	defer b.ShapeFree(second)
	if second <= first {
		t.Errorf("second handle %d, want greater than %d", second, first)
	}
}

func TestRasterize(t *testing.T) {
	b := New()
	_, f := loadRegular(t, b)
	sh := b.ShapeCreate()
	defer b.ShapeFree(sh)
	if !b.ShapeLoadGlyph(sh, f, 'O', 0) {
		t.Fatal("ShapeLoadGlyph('O') = false")
	}
	b.ShapeNormalize(sh)
	b.ShapeColorEdgesSimple(sh, 3.0, 0)

	const w, h = 24, 28
	out := b.Malloc(w * h * 3 * 4)
	defer b.Free(out)

	err := b.Rasterize(backend.RasterRequest{
		Mode: backend.ModeMSDF, Shape: sh, Width: w, Height: h, Out: out,
		RangeEm: 4.0 / 32, Scale: 32, TX: 0.1, TY: 0.1,
	})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	pixels := backend.Float32s(b.View(out, w*h*3*4))
	// The corner pixel lies outside the glyph.
	if pixels[0] >= 0.5 && pixels[1] >= 0.5 && pixels[2] >= 0.5 {
		t.Errorf("corner pixel = %v, want outside", pixels[:3])
	}
}

func TestRasterizeErrors(t *testing.T) {
	b := New()
	sh := b.ShapeCreate()
	defer b.ShapeFree(sh)
	small := b.Malloc(16)
	defer b.Free(small)

	err := b.Rasterize(backend.RasterRequest{Mode: backend.ModeSDF, Shape: sh + 100, Width: 2, Height: 2, Out: small, RangeEm: 1, Scale: 1})
	if !errors.Is(err, backend.ErrInvalidHandle) {
		t.Errorf("unknown shape: error = %v, want %v", err, backend.ErrInvalidHandle)
	}
	err = b.Rasterize(backend.RasterRequest{Mode: backend.ModeMSDF, Shape: sh, Width: 2, Height: 2, Out: small, RangeEm: 1, Scale: 1})
	if !errors.Is(err, backend.ErrOutOfBounds) {
		t.Errorf("small buffer: error = %v, want %v", err, backend.ErrOutOfBounds)
	}
	err = b.Rasterize(backend.RasterRequest{Mode: backend.ModeMSDF, Shape: sh, Width: 1 << 33, Height: 1 << 33, Out: small, RangeEm: 1, Scale: 1})
	if !errors.Is(err, field.ErrInvalidRaster) {
		t.Errorf("overflowing size: error = %v, want %v", err, field.ErrInvalidRaster)
	}
}

func TestMemory(t *testing.T) {
	b := New()

	p1 := b.Malloc(3)
	p2 := b.Malloc(8)
	if p1 == 0 || p2 == 0 {
		t.Fatal("Malloc() returned null")
	}
	if p1%8 != 0 || p2%8 != 0 {
		t.Errorf("pointers %d, %d not 8-aligned", p1, p2)
	}
	if p2 <= p1 {
		t.Errorf("p2 = %d, want greater than p1 = %d", p2, p1)
	}
	if v := b.View(p1, 4); v != nil {
		t.Errorf("View past end = %v, want nil", v)
	}
	if v := b.View(p2+4, 4); len(v) != 4 {
		t.Errorf("interior View len = %d, want 4", len(v))
	}
	if st := b.Stats(); st.Allocations != 2 || st.Bytes != 11 {
		t.Errorf("Stats() = %+v, want 2 allocations of 11 bytes", st)
	}

	b.Free(p1)
	b.Free(p1) // unknown pointer: no-op
	b.Free(0)
	if v := b.View(p1, 1); v != nil {
		t.Error("View of freed pointer should be nil")
	}
	b.Free(p2)
	if st := b.Stats(); st.Allocations != 0 || st.Bytes != 0 {
		t.Errorf("Stats() after Free = %+v, want empty", st)
	}
	if p := b.Malloc(-1); p != 0 {
		t.Errorf("Malloc(-1) = %d, want 0", p)
	}
}

func TestMemoryLimit(t *testing.T) {
	b := New(WithMemoryLimit(64))
	p := b.Malloc(48)
	if p == 0 {
		t.Fatal("Malloc(48) under limit returned null")
	}
	if q := b.Malloc(32); q != 0 {
		t.Errorf("Malloc(32) over limit = %d, want 0", q)
	}
	b.Free(p)
	if q := b.Malloc(32); q == 0 {
		t.Error("Malloc(32) after Free returned null")
	}
}
