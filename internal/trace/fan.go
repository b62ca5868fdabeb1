package trace

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/paraxial"
)

// span fills n evenly spaced values over [lo, hi]. A single value sits at
// the midpoint.
func span(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	switch n {
	case 0:
	case 1:
		out[0] = (lo + hi) / 2
	default:
		floats.Span(out, lo, hi)
	}
	return out
}

// Fan builds rc.Count rays in index n whose heights and angles are spread
// linearly over their ranges.
func Fan(rc config.RayConfig, n, wavelength float64) paraxial.RayBundle {
	return paraxial.RayBundle{
		Y:          span(rc.Count, rc.Height[0], rc.Height[1]),
		U:          span(rc.Count, rc.Angle[0], rc.Angle[1]),
		N:          n,
		Wavelength: wavelength,
	}
}

// Centroid returns the mean ray height.
func Centroid(b paraxial.RayBundle) float64 {
	if b.Len() == 0 {
		return 0
	}
	return stat.Mean(b.Y, nil)
}

// RMSSpot returns the RMS ray height about the centroid.
func RMSSpot(b paraxial.RayBundle) float64 {
	if b.Len() == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(b.Y, nil)
	return std
}

// Envelope returns the extreme ray heights over every sample.
func Envelope(r *Result) (lo, hi float64) {
	for i, h := range r.Heights {
		if len(h) == 0 {
			continue
		}
		mn, mx := floats.Min(h), floats.Max(h)
		if i == 0 || mn < lo {
			lo = mn
		}
		if i == 0 || mx > hi {
			hi = mx
		}
	}
	return lo, hi
}

// Waist returns the position and radius of the smallest sampled beam
// radius. ok is false when no beam was traced.
func Waist(r *Result) (z, w float64, ok bool) {
	if !r.HasBeam() {
		return 0, 0, false
	}
	i := floats.MinIdx(r.BeamW)
	return r.Z[i], r.BeamW[i], true
}

// BestFocus returns the sample with the smallest RMS spot.
func BestFocus(r *Result) (z, rms float64) {
	best := -1
	for i, h := range r.Heights {
		if len(h) == 0 {
			continue
		}
		_, s := stat.PopMeanStdDev(h, nil)
		if best < 0 || s < rms {
			best, rms = i, s
		}
	}
	if best < 0 {
		return 0, 0
	}
	return r.Z[best], rms
}
