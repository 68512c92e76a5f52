package field

import "errors"

// Sentinel errors for field package.
var (
	// ErrInvalidRaster is returned when the raster grid or transform is unusable.
	ErrInvalidRaster = errors.New("field: invalid raster dimensions or transform")

	// ErrBufferTooSmall is returned when the output slice cannot hold the field.
	ErrBufferTooSmall = errors.New("field: output buffer too small")
)
