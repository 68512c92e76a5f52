// Package fieldfile stores generated distance fields.
//
// Records are CBOR encoded with core deterministic encoding, so equal
// fields always produce equal bytes. Preview renders a field as an
// 8-bit image for inspection.
package fieldfile

import (
	"fmt"
	"io"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/gogpu/glyphfield"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
	dm, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxArrayElements:  math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// Record is the stored form of one generated glyph.
type Record struct {
	Char            rune       `cbor:"1,keyasint"`
	Mode            string     `cbor:"2,keyasint"`
	PxScale         float64    `cbor:"3,keyasint"`
	PxRange         float64    `cbor:"4,keyasint"`
	PxPadding       float64    `cbor:"5,keyasint"`
	Seed            uint64     `cbor:"6,keyasint"`
	ErrorCorrection string     `cbor:"7,keyasint"`
	Overlap         bool       `cbor:"8,keyasint"`
	Coloring        string     `cbor:"9,keyasint"`
	AngleThreshold  float64    `cbor:"10,keyasint"`
	Width           int        `cbor:"11,keyasint"`
	Height          int        `cbor:"12,keyasint"`
	Channels        int        `cbor:"13,keyasint"`
	DisplayWidth    float64    `cbor:"14,keyasint"`
	DisplayHeight   float64    `cbor:"15,keyasint"`
	Advance         float64    `cbor:"16,keyasint"`
	Bounds          [4]float64 `cbor:"17,keyasint"`
	Pixels          []float32  `cbor:"18,keyasint"`
}

// NewRecord captures a result generated for r with parameters p.
func NewRecord(r rune, p glyphfield.Params, res *glyphfield.Result) Record {
	return Record{
		Char:            r,
		Mode:            p.Mode.String(),
		PxScale:         p.PxScale,
		PxRange:         p.PxRange,
		PxPadding:       p.PxPadding,
		Seed:            p.Seed,
		ErrorCorrection: p.ErrorCorrection.String(),
		Overlap:         p.Overlap,
		Coloring:        string(p.Coloring),
		AngleThreshold:  p.AngleThreshold,
		Width:           res.Width,
		Height:          res.Height,
		Channels:        res.Channels,
		DisplayWidth:    res.DisplayWidth,
		DisplayHeight:   res.DisplayHeight,
		Advance:         res.Advance,
		Bounds:          [4]float64{res.Bounds.Left, res.Bounds.Bottom, res.Bounds.Right, res.Bounds.Top},
		Pixels:          res.Pixels,
	}
}

// Params returns the generation parameters stored in the record.
func (rec Record) Params() (glyphfield.Params, error) {
	p := glyphfield.Params{
		PxScale:        rec.PxScale,
		PxRange:        rec.PxRange,
		PxPadding:      rec.PxPadding,
		Seed:           rec.Seed,
		Overlap:        rec.Overlap,
		Coloring:       glyphfield.Coloring(rec.Coloring),
		AngleThreshold: rec.AngleThreshold,
	}
	if err := p.Mode.UnmarshalText([]byte(rec.Mode)); err != nil {
		return glyphfield.Params{}, fmt.Errorf("fieldfile: %w", err)
	}
	if err := p.ErrorCorrection.UnmarshalText([]byte(rec.ErrorCorrection)); err != nil {
		return glyphfield.Params{}, fmt.Errorf("fieldfile: %w", err)
	}
	return p, nil
}

// Result returns the stored field as a result. The pixels are shared
// with the record.
func (rec Record) Result() *glyphfield.Result {
	return &glyphfield.Result{
		Pixels:        rec.Pixels,
		Width:         rec.Width,
		Height:        rec.Height,
		DisplayWidth:  rec.DisplayWidth,
		DisplayHeight: rec.DisplayHeight,
		Channels:      rec.Channels,
		Advance:       rec.Advance,
		Bounds: glyphfield.Bounds{
			Left:   rec.Bounds[0],
			Bottom: rec.Bounds[1],
			Right:  rec.Bounds[2],
			Top:    rec.Bounds[3],
		},
	}
}

// EncodeCBOR writes rec to w.
func EncodeCBOR(w io.Writer, rec Record) error {
	return Encode(w, rec)
}

// DecodeCBOR reads one record from r and checks that the pixel count
// matches the stored dimensions.
func DecodeCBOR(r io.Reader) (Record, error) {
	var rec Record
	if err := Decode(r, &rec); err != nil {
		return Record{}, err
	}
	if want := rec.Width * rec.Height * rec.Channels; len(rec.Pixels) != want {
		return Record{}, fmt.Errorf("fieldfile: %d pixel values, want %d", len(rec.Pixels), want)
	}
	return rec, nil
}

// Encode writes v to w in core deterministic CBOR.
func Encode(w io.Writer, v any) error {
	if err := encMode.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("fieldfile: encode: %w", err)
	}
	return nil
}

// Decode reads one CBOR item from r into v. Unknown fields are errors.
func Decode(r io.Reader, v any) error {
	if err := decMode.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("fieldfile: decode: %w", err)
	}
	return nil
}
