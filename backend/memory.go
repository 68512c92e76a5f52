package backend

import (
	"encoding/binary"
	"math"
)

// Backend memory is little-endian. These helpers encode and decode
// values inside byte views returned by Backend.View.

// PutFloat64 writes v at byte offset off of b.
func PutFloat64(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:], math.Float64bits(v))
}

// Float64At reads the float64 at byte offset off of b.
func Float64At(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

// PutFloat32s encodes vs into b, which must hold 4*len(vs) bytes.
func PutFloat32s(b []byte, vs []float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
}

// Float32s decodes b as consecutive float32 values into a new slice.
func Float32s(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// ByteLen returns the byte size of a width x height x channels float32
// buffer. ok is false when a dimension is negative or the product
// overflows int.
func ByteLen(width, height, channels int) (n int, ok bool) {
	if width < 0 || height < 0 || channels < 0 {
		return 0, false
	}
	n = 4
	for _, d := range [...]int{width, height, channels} {
		if d != 0 && n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}
