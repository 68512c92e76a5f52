package backend

import (
	"fmt"
)

// Mode selects the kind of distance field to generate.
type Mode int

const (
	// ModeSDF is a single-channel true signed distance field.
	ModeSDF Mode = iota

	// ModePSDF is a single-channel pseudo signed distance field.
	ModePSDF

	// ModeMSDF is a three-channel multi-channel signed distance field.
	ModeMSDF

	// ModeMTSDF is MSDF with the true distance in a fourth channel.
	ModeMTSDF
)

var modeNames = [...]string{"sdf", "psdf", "msdf", "mtsdf"}

// Channels returns the number of float channels per pixel:
// 1 for SDF and PSDF, 3 for MSDF and 4 for MTSDF.
func (m Mode) Channels() int {
	switch m {
	case ModeMSDF:
		return 3
	case ModeMTSDF:
		return 4
	default:
		return 1
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= ModeSDF && m <= ModeMTSDF
}

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("backend: unknown mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	for i, name := range modeNames {
		if string(text) == name {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("backend: unknown mode %q", text)
}

// ErrorCorrection selects the artifact correction applied to
// multi-channel fields.
type ErrorCorrection int

const (
	// CorrectionDisabled performs no correction.
	CorrectionDisabled ErrorCorrection = iota

	// CorrectionIndiscriminate corrects every detected clash.
	CorrectionIndiscriminate

	// CorrectionEdgePriority corrects clashes that do not touch edges.
	CorrectionEdgePriority

	// CorrectionEdgeOnly corrects clashes on edges only.
	CorrectionEdgeOnly
)

var correctionNames = [...]string{"disabled", "indiscriminate", "edge-priority", "edge-only"}

// Valid reports whether c is a known correction mode.
func (c ErrorCorrection) Valid() bool {
	return c >= CorrectionDisabled && c <= CorrectionEdgeOnly
}

// String returns the name of the correction mode.
func (c ErrorCorrection) String() string {
	if c.Valid() {
		return correctionNames[c]
	}
	return fmt.Sprintf("ErrorCorrection(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c ErrorCorrection) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("backend: unknown error correction %d", int(c))
	}
	return []byte(correctionNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ErrorCorrection) UnmarshalText(text []byte) error {
	for i, name := range correctionNames {
		if string(text) == name {
			*c = ErrorCorrection(i)
			return nil
		}
	}
	return fmt.Errorf("backend: unknown error correction %q", text)
}
