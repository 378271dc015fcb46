// Package render converts raw DICOM pixel samples into displayable
// grayscale previews using window center/width transforms.
package render

import (
	"errors"
	"fmt"
	"math"
)

// Default window settings applied when a file carries none. The values
// correspond to a common soft-tissue CT window.
const (
	DefaultWindowCenter = 40.0
	DefaultWindowWidth  = 400.0
)

// ErrInvalidWindow is returned when the window width is zero or negative.
// A zero width would divide by zero during rescaling, so it is rejected
// outright rather than clamped to an arbitrary minimum.
var ErrInvalidWindow = errors.New("window width must be positive")

// Grid holds one frame of raw pixel samples in row-major order.
type Grid struct {
	Rows int
	Cols int
	Data []float64
}

// Gray holds normalized 8-bit samples in row-major order.
type Gray struct {
	Rows int
	Cols int
	Pix  []uint8
}

// Normalize maps raw samples into the displayable 0-255 range using a
// window transform: samples are clipped to [center-width/2, center+width/2],
// rescaled linearly to [0,255] and truncated to 8 bits. The output has the
// same dimensions as the input.
func Normalize(g Grid, center, width float64) (Gray, error) {
	if width <= 0 {
		return Gray{}, fmt.Errorf("%w, got %g", ErrInvalidWindow, width)
	}

	low := center - width/2
	high := center + width/2

	pix := make([]uint8, len(g.Data))
	for i, s := range g.Data {
		if s < low {
			s = low
		} else if s > high {
			s = high
		}
		v := (s - low) / width * 255
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		pix[i] = uint8(v)
	}

	return Gray{Rows: g.Rows, Cols: g.Cols, Pix: pix}, nil
}

// RawCast truncates samples to unsigned 8-bit without windowing. Out of
// range values wrap modulo 256 and non-finite values become zero. Lossy,
// but it never fails, which makes it the recovery path when normalization
// cannot be applied.
func RawCast(g Grid) Gray {
	pix := make([]uint8, len(g.Data))
	for i, s := range g.Data {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		pix[i] = uint8(int64(s))
	}
	return Gray{Rows: g.Rows, Cols: g.Cols, Pix: pix}
}
