package fieldfile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/glyphfield"
)

// Preview renders res as an 8-bit image. Field values are clamped to
// [0, 1]. One channel renders as gray, three as RGB and four as RGBA.
// Rows are flipped so the top of the glyph is at the top of the image.
func Preview(res *glyphfield.Result) *image.NRGBA {
	return Image(res.Pixels, res.Width, res.Height, res.Channels)
}

// Image renders a bottom-up, channel-interleaved float buffer.
func Image(pixels []float32, width, height, channels int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := height - 1 - y
		for x := 0; x < width; x++ {
			i := (row*width + x) * channels
			var c color.NRGBA
			switch channels {
			case 1:
				v := to8(pixels[i])
				c = color.NRGBA{R: v, G: v, B: v, A: 255}
			case 3:
				c = color.NRGBA{R: to8(pixels[i]), G: to8(pixels[i+1]), B: to8(pixels[i+2]), A: 255}
			default:
				c = color.NRGBA{R: to8(pixels[i]), G: to8(pixels[i+1]), B: to8(pixels[i+2]), A: to8(pixels[i+3])}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// WritePNG encodes the preview of res as PNG.
func WritePNG(w io.Writer, res *glyphfield.Result) error {
	if n := res.Width * res.Height * res.Channels; len(res.Pixels) < n {
		return fmt.Errorf("fieldfile: %d pixel values, want %d", len(res.Pixels), n)
	}
	if err := png.Encode(w, Preview(res)); err != nil {
		return fmt.Errorf("fieldfile: png: %w", err)
	}
	return nil
}

// to8 clamps v to [0, 1] and scales it to a byte.
func to8(v float32) uint8 {
	switch {
	case !(v > 0): // also NaN
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
