package fieldfile

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/glyphfield"
)

func sampleResult() *glyphfield.Result {
	return &glyphfield.Result{
		// 2x2 MSDF, bottom row first.
		Pixels: []float32{
			0, 0, 0, 1, 1, 1,
			0.5, 0.25, 0.75, -3, 2, float32(math.NaN()),
		},
		Width:         2,
		Height:        2,
		DisplayWidth:  21.5,
		DisplayHeight: 30,
		Channels:      3,
		Advance:       0.6,
		Bounds:        glyphfield.Bounds{Left: 0.05, Bottom: -0.01, Right: 0.59, Top: 0.74},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	res := sampleResult()
	res.Pixels[11] = 0.125 // NaN never compares equal
	p := glyphfield.DefaultParams()
	p.Mode = glyphfield.ModeMSDF
	p.Seed = 99
	p.ErrorCorrection = glyphfield.CorrectionEdgePriority
	p.Overlap = true

	var buf bytes.Buffer
	if err := EncodeCBOR(&buf, NewRecord('A', p, res)); err != nil {
		t.Fatalf("EncodeCBOR() = %v", err)
	}
	rec, err := DecodeCBOR(&buf)
	if err != nil {
		t.Fatalf("DecodeCBOR() = %v", err)
	}

	if rec.Char != 'A' {
		t.Errorf("Char = %q, want 'A'", rec.Char)
	}
	gotParams, err := rec.Params()
	if err != nil {
		t.Fatalf("Params() = %v", err)
	}
	if diff := cmp.Diff(p, gotParams); diff != "" {
		t.Errorf("Params() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res, rec.Result()); diff != "" {
		t.Errorf("Result() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	rec := NewRecord('x', glyphfield.DefaultParams(), sampleResult())
	var a, b bytes.Buffer
	if err := EncodeCBOR(&a, rec); err != nil {
		t.Fatal(err)
	}
	if err := EncodeCBOR(&b, rec); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("EncodeCBOR() is not deterministic")
	}
}

func TestDecodePixelCountMismatch(t *testing.T) {
	rec := NewRecord('x', glyphfield.DefaultParams(), sampleResult())
	rec.Width = 3

	var buf bytes.Buffer
	if err := EncodeCBOR(&buf, rec); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeCBOR(&buf); err == nil {
		t.Error("DecodeCBOR() = nil, want pixel count error")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeCBOR(bytes.NewReader([]byte{0xff, 0x00})); err == nil {
		t.Error("DecodeCBOR(garbage) = nil, want error")
	}
}

func TestRecordParamsUnknownMode(t *testing.T) {
	rec := NewRecord('x', glyphfield.DefaultParams(), sampleResult())
	rec.Mode = "hdr"
	if _, err := rec.Params(); err == nil {
		t.Error("Params() = nil, want error for unknown mode")
	}
}

func TestPreview(t *testing.T) {
	img := Preview(sampleResult())
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("Preview() bounds = %v, want 2x2", b)
	}

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		// Bottom field row lands on the bottom image row.
		{0, 1, color.NRGBA{0, 0, 0, 255}},
		{1, 1, color.NRGBA{255, 255, 255, 255}},
		// Top row: clamping and NaN.
		{0, 0, color.NRGBA{128, 64, 191, 255}},
		{1, 0, color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("NRGBAAt(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPreviewChannels(t *testing.T) {
	gray := Image([]float32{0.5}, 1, 1, 1)
	if got, want := gray.NRGBAAt(0, 0), (color.NRGBA{128, 128, 128, 255}); got != want {
		t.Errorf("1 channel = %v, want %v", got, want)
	}
	rgba := Image([]float32{1, 0, 1, 0.5}, 1, 1, 4)
	if got, want := rgba.NRGBAAt(0, 0), (color.NRGBA{255, 0, 255, 128}); got != want {
		t.Errorf("4 channels = %v, want %v", got, want)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, sampleResult()); err != nil {
		t.Fatalf("WritePNG() = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("decoded bounds = %v, want 2x2", b)
	}

	short := sampleResult()
	short.Pixels = short.Pixels[:3]
	if err := WritePNG(&buf, short); err == nil {
		t.Error("WritePNG(short buffer) = nil, want error")
	}
}
