package render

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SampleStats summarizes the intensity distribution of a frame.
type SampleStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Stats computes intensity statistics over all samples of a grid.
func Stats(g Grid) SampleStats {
	if len(g.Data) == 0 {
		return SampleStats{}
	}

	s := SampleStats{
		Min:  g.Data[0],
		Max:  g.Data[0],
		Mean: stat.Mean(g.Data, nil),
	}
	if len(g.Data) > 1 {
		s.StdDev = stat.StdDev(g.Data, nil)
	}
	for _, v := range g.Data {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// AutoWindow derives window settings from the sample distribution: the
// center tracks the mean and the width spans four standard deviations,
// which keeps roughly 95% of samples inside the window. Degenerate
// distributions (empty or constant frames) fall back to the defaults.
func AutoWindow(g Grid) (center, width float64) {
	s := Stats(g)
	if len(g.Data) == 0 || s.StdDev <= 0 || math.IsNaN(s.StdDev) {
		return DefaultWindowCenter, DefaultWindowWidth
	}
	return s.Mean, 4 * s.StdDev
}
