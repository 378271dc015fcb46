package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// DataURIPrefix is prepended to every encoded preview.
const DataURIPrefix = "data:image/png;base64,"

// Image converts the normalized samples into a stdlib grayscale image.
func (g Gray) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))
	copy(img.Pix, g.Pix)
	return img
}

// GridFromImage extracts raw samples from a decoded frame image. Native
// 16-bit frames arrive as *image.Gray16 carrying the stored values, 8-bit
// frames as *image.Gray; anything else is reduced to 8-bit luminance.
func GridFromImage(img image.Image) Grid {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	data := make([]float64, 0, rows*cols)

	switch src := img.(type) {
	case *image.Gray16:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				data = append(data, float64(src.Gray16At(x, y).Y))
			}
		}
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				data = append(data, float64(src.GrayAt(x, y).Y))
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				data = append(data, float64((r+g+b)/3>>8))
			}
		}
	}

	return Grid{Rows: rows, Cols: cols, Data: data}
}

// EncodePreview renders a frame as a base64 PNG data URI. A nil or empty
// grid yields ("", false), the explicit no-image signal. When the window
// cannot be applied the raw 8-bit cast is used instead, so a present frame
// always produces an image. Encoding failures are logged and reported as
// no-image, never raised.
//
// maxDim bounds the longer preview edge; larger frames are downscaled,
// zero disables scaling.
func EncodePreview(g *Grid, center, width float64, maxDim int) (string, bool) {
	if g == nil || g.Rows <= 0 || g.Cols <= 0 || len(g.Data) == 0 {
		return "", false
	}

	gray, err := Normalize(*g, center, width)
	if err != nil {
		log.Warn().Err(err).
			Float64("center", center).
			Float64("width", width).
			Msg("window normalization failed, falling back to raw cast")
		gray = RawCast(*g)
	}

	img := gray.Image()
	if maxDim > 0 && (gray.Cols > maxDim || gray.Rows > maxDim) {
		img = downscale(img, maxDim)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Error().Err(err).Msg("png encoding failed")
		return "", false
	}

	return DataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), true
}

// downscale shrinks an image so its longer edge equals maxDim, preserving
// aspect ratio.
func downscale(src *image.Gray, maxDim int) *image.Gray {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}

	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewGray(image.Rect(0, 0, dw, dh))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
