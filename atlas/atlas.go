// Package atlas packs generated distance fields into a single float
// texture with per-glyph placement metadata.
package atlas

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"

	"github.com/gogpu/glyphfield"
	"github.com/gogpu/glyphfield/fieldfile"
)

// Config holds atlas configuration.
type Config struct {
	// Width and Height are the atlas size in pixels.
	Width, Height int

	// Channels must match the mode of every added glyph.
	Channels int

	// Gap is the number of empty pixels between glyphs.
	Gap int
}

// DefaultConfig returns a 1024x1024 three-channel atlas with a 1 pixel gap.
func DefaultConfig() Config {
	return Config{Width: 1024, Height: 1024, Channels: 3, Gap: 1}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Width < 1 || c.Width > 16384 {
		return &ConfigError{Field: "Width", Reason: "must be in [1, 16384]"}
	}
	if c.Height < 1 || c.Height > 16384 {
		return &ConfigError{Field: "Height", Reason: "must be in [1, 16384]"}
	}
	switch c.Channels {
	case 1, 3, 4:
	default:
		return &ConfigError{Field: "Channels", Reason: "must be 1, 3 or 4"}
	}
	if c.Gap < 0 {
		return &ConfigError{Field: "Gap", Reason: "must be non-negative"}
	}
	return nil
}

// Region locates one glyph in the atlas.
type Region struct {
	Char rune `json:"char" cbor:"1,keyasint"`

	// X, Y, W, H is the pixel rectangle. Y counts rows from the bottom,
	// matching the pixel order.
	X int `json:"x" cbor:"2,keyasint"`
	Y int `json:"y" cbor:"3,keyasint"`
	W int `json:"w" cbor:"4,keyasint"`
	H int `json:"h" cbor:"5,keyasint"`

	// U0, V0, U1, V1 is the rectangle in normalized texture coordinates.
	U0 float64 `json:"u0" cbor:"6,keyasint"`
	V0 float64 `json:"v0" cbor:"7,keyasint"`
	U1 float64 `json:"u1" cbor:"8,keyasint"`
	V1 float64 `json:"v1" cbor:"9,keyasint"`

	DisplayWidth  float64 `json:"display_width" cbor:"10,keyasint"`
	DisplayHeight float64 `json:"display_height" cbor:"11,keyasint"`
	Advance       float64 `json:"advance" cbor:"12,keyasint"`
}

// Atlas is a float texture holding many glyph fields.
//
// Atlas is not safe for concurrent use.
type Atlas struct {
	Width, Height int
	Channels      int

	// Pixels holds Width*Height*Channels values, bottom row first.
	Pixels []float32

	alloc   *ShelfAllocator
	regions map[rune]Region
	order   []rune
}

// New creates an empty atlas.
func New(c Config) (*Atlas, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Atlas{
		Width:    c.Width,
		Height:   c.Height,
		Channels: c.Channels,
		Pixels:   make([]float32, c.Width*c.Height*c.Channels),
		alloc:    NewShelfAllocator(c.Width, c.Height, c.Gap),
		regions:  make(map[rune]Region),
	}, nil
}

// Add copies res into the atlas under key.
func (a *Atlas) Add(key rune, res *glyphfield.Result) (Region, error) {
	if res == nil {
		return Region{}, fmt.Errorf("%w: %U is nil", ErrInvalidResult, key)
	}
	if res.Width <= 0 || res.Height <= 0 || len(res.Pixels) < res.Width*res.Height*res.Channels {
		return Region{}, fmt.Errorf("%w: %U has %d values for %dx%dx%d",
			ErrInvalidResult, key, len(res.Pixels), res.Width, res.Height, res.Channels)
	}
	if res.Channels != a.Channels {
		return Region{}, fmt.Errorf("%w: glyph has %d, atlas has %d", ErrChannelMismatch, res.Channels, a.Channels)
	}
	if _, ok := a.regions[key]; ok {
		return Region{}, fmt.Errorf("%w: %U", ErrDuplicateKey, key)
	}
	rect, ok := a.alloc.Allocate(res.Width, res.Height)
	if !ok {
		return Region{}, fmt.Errorf("%w: %U (%dx%d)", ErrAllocationFailed, key, res.Width, res.Height)
	}

	rowLen := res.Width * a.Channels
	for j := 0; j < res.Height; j++ {
		src := res.Pixels[j*rowLen : (j+1)*rowLen]
		dst := ((rect.Min.Y+j)*a.Width + rect.Min.X) * a.Channels
		copy(a.Pixels[dst:dst+rowLen], src)
	}

	r := Region{
		Char:          key,
		X:             rect.Min.X,
		Y:             rect.Min.Y,
		W:             rect.Dx(),
		H:             rect.Dy(),
		U0:            float64(rect.Min.X) / float64(a.Width),
		V0:            float64(rect.Min.Y) / float64(a.Height),
		U1:            float64(rect.Max.X) / float64(a.Width),
		V1:            float64(rect.Max.Y) / float64(a.Height),
		DisplayWidth:  res.DisplayWidth,
		DisplayHeight: res.DisplayHeight,
		Advance:       res.Advance,
	}
	a.regions[key] = r
	a.order = append(a.order, key)
	return r, nil
}

// Region returns the region stored under key.
func (a *Atlas) Region(key rune) (Region, bool) {
	r, ok := a.regions[key]
	return r, ok
}

// Regions returns all regions in insertion order.
func (a *Atlas) Regions() []Region {
	out := make([]Region, len(a.order))
	for i, k := range a.order {
		out[i] = a.regions[k]
	}
	return out
}

// Len returns the number of glyphs in the atlas.
func (a *Atlas) Len() int { return len(a.order) }

// Utilization returns the fraction of the atlas covered by glyphs.
func (a *Atlas) Utilization() float64 { return a.alloc.Utilization() }

// metadata is the serialized form of the atlas layout.
type metadata struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Channels int      `json:"channels"`
	Regions  []Region `json:"regions"`
}

// dump is the CBOR form of the whole atlas.
type dump struct {
	Width    int       `cbor:"1,keyasint"`
	Height   int       `cbor:"2,keyasint"`
	Channels int       `cbor:"3,keyasint"`
	Regions  []Region  `cbor:"4,keyasint"`
	Pixels   []float32 `cbor:"5,keyasint"`
}

// WriteJSON writes the layout metadata as indented JSON.
func (a *Atlas) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.metadata())
}

// WriteCBOR writes the layout and pixels as deterministic CBOR.
func (a *Atlas) WriteCBOR(w io.Writer) error {
	return fieldfile.Encode(w, dump{
		Width:    a.Width,
		Height:   a.Height,
		Channels: a.Channels,
		Regions:  a.Regions(),
		Pixels:   a.Pixels,
	})
}

// WritePNG writes an 8-bit preview with the top row first.
func (a *Atlas) WritePNG(w io.Writer) error {
	return png.Encode(w, fieldfile.Image(a.Pixels, a.Width, a.Height, a.Channels))
}

func (a *Atlas) metadata() metadata {
	return metadata{
		Width:    a.Width,
		Height:   a.Height,
		Channels: a.Channels,
		Regions:  a.Regions(),
	}
}
