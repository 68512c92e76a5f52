package field

import (
	"testing"
)

func coloredSquare() *Shape {
	s := square(0, 0, 1, true)
	s.Normalize()
	ColorSimple(s, 3.0, 0)
	return s
}

func TestRasterizeInsideOutside(t *testing.T) {
	for _, mode := range []Mode{ModeSDF, ModePSDF, ModeMSDF, ModeMTSDF} {
		r := Raster{Mode: mode, Width: 12, Height: 12, RangeEm: 0.25, Scale: 8, TX: 0.25, TY: 0.25}
		out := make([]float32, r.Width*r.Height*mode.Channels())
		if err := Rasterize(coloredSquare(), r, out); err != nil {
			t.Fatalf("Rasterize(%v) error = %v", mode, err)
		}

		value := func(x, y int) float64 {
			i := (y*r.Width + x) * mode.Channels()
			if mode.Channels() == 1 {
				return float64(out[i])
			}
			return median(float64(out[i]), float64(out[i+1]), float64(out[i+2]))
		}

		// Pixel (6, 6) samples (0.5625, 0.5625), inside the square.
		if v := value(6, 6); v <= 0.5 {
			t.Errorf("mode %v: center value = %v, want > 0.5", mode, v)
		}
		// Pixel (0, 0) samples (-0.1875, -0.1875), outside the corner.
		if v := value(0, 0); v >= 0.5 {
			t.Errorf("mode %v: corner value = %v, want < 0.5", mode, v)
		}
		// Pixel (11, 6) samples (1.1875, 0.5625), right of the square.
		if v := value(11, 6); v >= 0.5 {
			t.Errorf("mode %v: right value = %v, want < 0.5", mode, v)
		}
	}
}

func TestRasterizeDistanceMapping(t *testing.T) {
	r := Raster{Mode: ModeSDF, Width: 12, Height: 12, RangeEm: 0.25, Scale: 8, TX: 0.25, TY: 0.25}
	out := make([]float32, r.Width*r.Height)
	if err := Rasterize(coloredSquare(), r, out); err != nil {
		t.Fatal(err)
	}
	// (0.5625, 0.5625) is 0.4375 from the nearest side: 0.4375/0.25 + 0.5.
	if got := out[6*r.Width+6]; got != 2.25 {
		t.Errorf("value = %v, want 2.25", got)
	}
}

func TestRasterizeBottomRowFirst(t *testing.T) {
	// A wide bar in the lower half of the grid.
	b := NewBuilder()
	b.MoveTo(Point{0, 0})
	b.LineTo(Point{4, 0})
	b.LineTo(Point{4, 1})
	b.LineTo(Point{0, 1})
	s := b.Shape()
	s.Normalize()

	r := Raster{Mode: ModeSDF, Width: 4, Height: 4, RangeEm: 1, Scale: 1}
	out := make([]float32, 16)
	if err := Rasterize(s, r, out); err != nil {
		t.Fatal(err)
	}
	if out[1] <= 0.5 {
		t.Errorf("row 0 value = %v, want inside", out[1])
	}
	if out[3*4+1] >= 0.5 {
		t.Errorf("row 3 value = %v, want outside", out[3*4+1])
	}
}

func TestRasterizeEmptyShape(t *testing.T) {
	r := Raster{Mode: ModeMSDF, Width: 4, Height: 4, RangeEm: 0.1, Scale: 32}
	out := make([]float32, 4*4*3)
	for i := range out {
		out[i] = 9
	}
	if err := Rasterize(NewShape(), r, out); err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestRasterizeErrors(t *testing.T) {
	s := coloredSquare()
	tests := []struct {
		name string
		r    Raster
		n    int
		want error
	}{
		{"zero width", Raster{Mode: ModeSDF, Width: 0, Height: 4, RangeEm: 1, Scale: 1}, 16, ErrInvalidRaster},
		{"zero scale", Raster{Mode: ModeSDF, Width: 4, Height: 4, RangeEm: 1}, 16, ErrInvalidRaster},
		{"short buffer", Raster{Mode: ModeMTSDF, Width: 4, Height: 4, RangeEm: 1, Scale: 1}, 16, ErrBufferTooSmall},
		{"overflowing size", Raster{Mode: ModeMSDF, Width: 1 << 33, Height: 1 << 33, RangeEm: 1, Scale: 1}, 0, ErrInvalidRaster},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Rasterize(s, tt.r, make([]float32, tt.n)); err != tt.want {
				t.Errorf("Rasterize() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRasterizeOverlap(t *testing.T) {
	// Two overlapping squares, both filled.
	s := NewShape()
	s.AddContour(square(0, 0, 1, true).Contours[0])
	s.AddContour(square(0.5, 0, 1, true).Contours[0])
	s.Normalize()

	r := Raster{Mode: ModeSDF, Width: 15, Height: 10, RangeEm: 0.5, Scale: 10}
	plain := make([]float32, r.Width*r.Height)
	if err := Rasterize(s, r, plain); err != nil {
		t.Fatal(err)
	}
	r.Overlap = true
	merged := make([]float32, r.Width*r.Height)
	if err := Rasterize(s, r, merged); err != nil {
		t.Fatal(err)
	}

	// Pixel (9, 4) samples (0.95, 0.45), next to the first square's right
	// side but deep inside the union.
	i := 4*r.Width + 9
	if plain[i] > 0.7 {
		t.Errorf("without overlap: value = %v, want near the edge", plain[i])
	}
	if merged[i] < 1.2 {
		t.Errorf("with overlap: value = %v, want deep inside", merged[i])
	}
}

func TestErrorCorrectionPreservesMedian(t *testing.T) {
	b := NewBuilder()
	b.MoveTo(Point{0, 0})
	b.LineTo(Point{1, 0})
	b.LineTo(Point{0.5, 0.2})
	b.LineTo(Point{1, 1})
	b.LineTo(Point{0, 1})
	s := b.Shape()
	s.Normalize()
	ColorSimple(s, 3.0, 0)

	r := Raster{Mode: ModeMTSDF, Width: 24, Height: 24, RangeEm: 0.125, Scale: 16, TX: 0.25, TY: 0.25}
	base := make([]float32, r.Width*r.Height*4)
	if err := Rasterize(s, r, base); err != nil {
		t.Fatal(err)
	}

	for _, mode := range []ErrorCorrection{CorrectionIndiscriminate, CorrectionEdgePriority, CorrectionEdgeOnly} {
		r.ErrorCorrection = mode
		out := make([]float32, len(base))
		if err := Rasterize(s, r, out); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < len(out); i += 4 {
			want := median(float64(base[i]), float64(base[i+1]), float64(base[i+2]))
			got := median(float64(out[i]), float64(out[i+1]), float64(out[i+2]))
			if got != want {
				t.Fatalf("mode %d pixel %d: median %v, want %v", mode, i/4, got, want)
			}
			if out[i+3] != base[i+3] {
				t.Fatalf("mode %d pixel %d: alpha changed", mode, i/4)
			}
		}
	}
}

func TestModeChannels(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{ModeSDF, 1},
		{ModePSDF, 1},
		{ModeMSDF, 3},
		{ModeMTSDF, 4},
	}
	for _, tt := range tests {
		if got := tt.mode.Channels(); got != tt.want {
			t.Errorf("Mode(%d).Channels() = %d, want %d", tt.mode, got, tt.want)
		}
	}
}
