package glyphfield

import (
	"math"

	"github.com/gogpu/glyphfield/backend"
)

// Mode selects the kind of distance field to generate.
type Mode = backend.Mode

// Distance field modes.
const (
	ModeSDF   = backend.ModeSDF
	ModePSDF  = backend.ModePSDF
	ModeMSDF  = backend.ModeMSDF
	ModeMTSDF = backend.ModeMTSDF
)

// ErrorCorrection selects the artifact correction applied by the backend.
type ErrorCorrection = backend.ErrorCorrection

// Error correction modes.
const (
	CorrectionDisabled       = backend.CorrectionDisabled
	CorrectionIndiscriminate = backend.CorrectionIndiscriminate
	CorrectionEdgePriority   = backend.CorrectionEdgePriority
	CorrectionEdgeOnly       = backend.CorrectionEdgeOnly
)

// Coloring names an edge coloring strategy.
type Coloring string

// Edge coloring strategies.
const (
	// ColoringSimple switches colors at every corner sharper than the
	// angle threshold.
	ColoringSimple Coloring = "simple"

	// ColoringInkTrap is the default. It always uses a corner angle of 3.0
	// radians and ignores Params.AngleThreshold.
	ColoringInkTrap Coloring = "inktrap"

	// ColoringDistance keeps edges of the same color far apart.
	ColoringDistance Coloring = "distance"
)

// inktrapCornerAngle is the corner angle used by the ink-trap strategy.
const inktrapCornerAngle = 3.0

// Params configures one glyph generation. It is passed by value and
// never modified by the session.
type Params struct {
	// Mode selects the field type and with it the channel count.
	Mode Mode `yaml:"mode" toml:"mode"`

	// PxScale is the number of pixels per em. Must be finite and > 0.
	PxScale float64 `yaml:"px_scale" toml:"px_scale"`

	// PxRange is the distance falloff width in pixels. Must be > 0.
	PxRange float64 `yaml:"px_range" toml:"px_range"`

	// PxPadding is the border around the glyph in pixels. Must be >= 0.
	PxPadding float64 `yaml:"px_padding" toml:"px_padding"`

	// Seed drives edge coloring. Equal seeds give equal colorings.
	Seed uint64 `yaml:"seed" toml:"seed"`

	// ErrorCorrection selects the artifact correction mode.
	ErrorCorrection ErrorCorrection `yaml:"error_correction" toml:"error_correction"`

	// Overlap enables overlapping contour resolution.
	Overlap bool `yaml:"overlap" toml:"overlap"`

	// Coloring selects the edge coloring strategy. Empty means inktrap.
	Coloring Coloring `yaml:"coloring" toml:"coloring"`

	// AngleThreshold is the corner threshold in radians for the simple
	// and distance strategies.
	AngleThreshold float64 `yaml:"angle_threshold" toml:"angle_threshold"`
}

// DefaultParams returns the default parameter set: MSDF at 32 px/em with
// a 4 px range, 2 px padding and ink-trap coloring.
func DefaultParams() Params {
	return Params{
		Mode:            ModeMSDF,
		PxScale:         32,
		PxRange:         4,
		PxPadding:       2,
		Seed:            0,
		ErrorCorrection: CorrectionDisabled,
		Overlap:         false,
		Coloring:        ColoringInkTrap,
		AngleThreshold:  3.0,
	}
}

// Validate checks the parameters and returns a *ParamError for the first
// invalid field.
func (p Params) Validate() error {
	if !finite(p.PxScale) || p.PxScale <= 0 {
		return &ParamError{Field: "px_scale", Reason: "must be a finite number greater than 0"}
	}
	if !finite(p.PxRange) || p.PxRange <= 0 {
		return &ParamError{Field: "px_range", Reason: "must be a finite number greater than 0"}
	}
	if !finite(p.PxPadding) || p.PxPadding < 0 {
		return &ParamError{Field: "px_padding", Reason: "must be a finite number not less than 0"}
	}
	if !p.Mode.Valid() {
		return &ParamError{Field: "mode", Reason: "unknown mode " + p.Mode.String()}
	}
	if !p.ErrorCorrection.Valid() {
		return &ParamError{Field: "error_correction", Reason: "unknown mode " + p.ErrorCorrection.String()}
	}
	switch p.Coloring {
	case "", ColoringInkTrap:
	case ColoringSimple, ColoringDistance:
		if !finite(p.AngleThreshold) || p.AngleThreshold <= 0 {
			return &ParamError{Field: "angle_threshold", Reason: "must be a finite number greater than 0"}
		}
	default:
		return &ParamError{Field: "coloring", Reason: "unknown strategy " + string(p.Coloring)}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
