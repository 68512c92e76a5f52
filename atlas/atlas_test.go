package atlas

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/glyphfield"
	"github.com/gogpu/glyphfield/fieldfile"
)

// --- ShelfAllocator Tests ---

func TestShelfAllocator_Basic(t *testing.T) {
	a := NewShelfAllocator(100, 100, 2)

	r, ok := a.Allocate(20, 20)
	if !ok || r != image.Rect(0, 0, 20, 20) {
		t.Fatalf("first Allocate() = %v, %v, want (0,0)-(20,20)", r, ok)
	}
	r, ok = a.Allocate(20, 20)
	if !ok || r.Min != image.Pt(22, 0) { // 20 + 2 gap
		t.Errorf("second Allocate() = %v, %v, want min (22,0)", r, ok)
	}
}

func TestShelfAllocator_NewShelf(t *testing.T) {
	a := NewShelfAllocator(50, 100, 2)

	r1, _ := a.Allocate(20, 20)
	r2, _ := a.Allocate(20, 20)
	if r1.Min.Y != r2.Min.Y {
		t.Errorf("expected same shelf, got y1=%d, y2=%d", r1.Min.Y, r2.Min.Y)
	}

	r3, ok := a.Allocate(20, 20)
	if !ok {
		t.Fatal("failed to allocate third cell")
	}
	if r3.Min != image.Pt(0, 22) {
		t.Errorf("third cell at %v, want (0,22)", r3.Min)
	}
	if got := a.ShelfCount(); got != 2 {
		t.Errorf("ShelfCount() = %d, want 2", got)
	}
}

func TestShelfAllocator_Full(t *testing.T) {
	a := NewShelfAllocator(40, 40, 0)
	for i := 0; i < 4; i++ {
		if _, ok := a.Allocate(20, 20); !ok {
			t.Fatalf("Allocate() #%d failed", i)
		}
	}
	if a.CanFit(1, 1) {
		t.Error("CanFit(1, 1) = true on a full allocator")
	}
	if _, ok := a.Allocate(1, 1); ok {
		t.Error("Allocate() succeeded on a full allocator")
	}
	if got := a.Utilization(); got != 1 {
		t.Errorf("Utilization() = %v, want 1", got)
	}
}

func TestShelfAllocator_LastShelfGrows(t *testing.T) {
	a := NewShelfAllocator(100, 100, 0)
	a.Allocate(10, 10)
	r, ok := a.Allocate(10, 30)
	if !ok || r.Min != image.Pt(10, 0) {
		t.Fatalf("Allocate(10, 30) = %v, %v, want on first shelf", r, ok)
	}
	r, ok = a.Allocate(90, 5)
	if !ok || r.Min != image.Pt(0, 30) {
		t.Errorf("Allocate(90, 5) = %v, %v, want new shelf at y=30", r, ok)
	}
}

func TestShelfAllocator_Rejects(t *testing.T) {
	a := NewShelfAllocator(10, 10, 0)
	for _, sz := range [][2]int{{0, 5}, {5, 0}, {11, 1}, {1, 11}} {
		if a.CanFit(sz[0], sz[1]) {
			t.Errorf("CanFit(%d, %d) = true", sz[0], sz[1])
		}
		if _, ok := a.Allocate(sz[0], sz[1]); ok {
			t.Errorf("Allocate(%d, %d) succeeded", sz[0], sz[1])
		}
	}
}

func TestShelfAllocator_Reset(t *testing.T) {
	a := NewShelfAllocator(10, 10, 0)
	a.Allocate(10, 10)
	a.Reset()
	if a.ShelfCount() != 0 || a.Utilization() != 0 {
		t.Error("Reset() did not clear allocations")
	}
	if _, ok := a.Allocate(10, 10); !ok {
		t.Error("Allocate() after Reset failed")
	}
}

// --- Atlas Tests ---

// solid returns a w x h result whose every value is v.
func solid(w, h, channels int, v float32) *glyphfield.Result {
	px := make([]float32, w*h*channels)
	for i := range px {
		px[i] = v
	}
	return &glyphfield.Result{
		Pixels:        px,
		Width:         w,
		Height:        h,
		Channels:      channels,
		DisplayWidth:  float64(w),
		DisplayHeight: float64(h),
		Advance:       0.5,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "Width"},
		{"huge height", func(c *Config) { c.Height = 1 << 20 }, "Height"},
		{"two channels", func(c *Config) { c.Channels = 2 }, "Channels"},
		{"negative gap", func(c *Config) { c.Gap = -1 }, "Gap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			_, err := New(c)
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("New() = %v, want ConfigError on %s", err, tt.field)
			}
		})
	}
}

func TestAtlas_AddCopiesPixels(t *testing.T) {
	a, err := New(Config{Width: 8, Height: 8, Channels: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Add('a', solid(3, 2, 1, 0.25)); err != nil {
		t.Fatalf("Add(a) = %v", err)
	}
	r, err := a.Add('b', solid(2, 4, 1, 0.75))
	if err != nil {
		t.Fatalf("Add(b) = %v", err)
	}

	want := Region{
		Char: 'b', X: 3, Y: 0, W: 2, H: 4,
		U0: 3.0 / 8, V0: 0, U1: 5.0 / 8, V1: 4.0 / 8,
		DisplayWidth: 2, DisplayHeight: 4, Advance: 0.5,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Add(b) region mismatch (-want +got):\n%s", diff)
	}

	at := func(x, y int) float32 { return a.Pixels[y*a.Width+x] }
	if got := at(0, 1); got != 0.25 {
		t.Errorf("pixel (0,1) = %v, want 0.25", got)
	}
	if got := at(4, 3); got != 0.75 {
		t.Errorf("pixel (4,3) = %v, want 0.75", got)
	}
	if got := at(0, 2); got != 0 {
		t.Errorf("pixel (0,2) = %v, want 0 (outside a)", got)
	}

	if got, ok := a.Region('b'); !ok || got != r {
		t.Errorf("Region(b) = %v, %v", got, ok)
	}
	if got := a.Regions(); len(got) != 2 || got[0].Char != 'a' || got[1].Char != 'b' {
		t.Errorf("Regions() = %v, want a then b", got)
	}
}

func TestAtlas_AddErrors(t *testing.T) {
	a, err := New(Config{Width: 4, Height: 4, Channels: 3})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Add('x', solid(2, 2, 1, 0)); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("Add(1 channel) = %v, want ErrChannelMismatch", err)
	}
	if _, err := a.Add('x', nil); !errors.Is(err, ErrInvalidResult) {
		t.Errorf("Add(nil) = %v, want ErrInvalidResult", err)
	}
	short := solid(2, 2, 3, 0)
	short.Pixels = short.Pixels[:5]
	if _, err := a.Add('x', short); !errors.Is(err, ErrInvalidResult) {
		t.Errorf("Add(short pixels) = %v, want ErrInvalidResult", err)
	}
	if a.Len() != 0 || a.Utilization() != 0 {
		t.Errorf("rejected results were placed: Len() = %d, Utilization() = %v", a.Len(), a.Utilization())
	}
	if _, err := a.Add('x', solid(5, 1, 3, 0)); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("Add(oversize) = %v, want ErrAllocationFailed", err)
	}
	if _, err := a.Add('x', solid(4, 4, 3, 0)); err != nil {
		t.Fatalf("Add(full size) = %v", err)
	}
	if _, err := a.Add('y', solid(1, 1, 3, 0)); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("Add(into full atlas) = %v, want ErrAllocationFailed", err)
	}
	if _, err := a.Add('x', solid(1, 1, 3, 0)); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Add(duplicate) = %v, want ErrDuplicateKey", err)
	}
}

func TestAtlas_Writers(t *testing.T) {
	a, err := New(Config{Width: 4, Height: 4, Channels: 3, Gap: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Add('i', solid(1, 3, 3, 1)); err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := a.WriteJSON(&js); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	var meta struct {
		Width   int      `json:"width"`
		Regions []Region `json:"regions"`
	}
	if err := json.Unmarshal(js.Bytes(), &meta); err != nil {
		t.Fatalf("json.Unmarshal() = %v", err)
	}
	if meta.Width != 4 || len(meta.Regions) != 1 || meta.Regions[0].H != 3 {
		t.Errorf("JSON metadata = %+v", meta)
	}

	var cb bytes.Buffer
	if err := a.WriteCBOR(&cb); err != nil {
		t.Fatalf("WriteCBOR() = %v", err)
	}
	var d dump
	if err := fieldfile.Decode(&cb, &d); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if diff := cmp.Diff(a.Pixels, d.Pixels); diff != "" {
		t.Errorf("CBOR pixels mismatch (-want +got):\n%s", diff)
	}

	var img bytes.Buffer
	if err := a.WritePNG(&img); err != nil {
		t.Fatalf("WritePNG() = %v", err)
	}
	if img.Len() == 0 {
		t.Error("WritePNG() wrote nothing")
	}
}
