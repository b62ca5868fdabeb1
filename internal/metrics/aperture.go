package metrics

import (
	"math"

	"github.com/san-kum/opticlab/internal/trace"
)

// Aperture reports the fraction of rays that stay within a clear radius
// at every sample. A ray clipped once stays clipped.
type Aperture struct {
	name    string
	radius  float64
	clipped []bool
}

func NewAperture(radius float64) *Aperture {
	return &Aperture{
		name:   "transmitted",
		radius: radius,
	}
}

func (a *Aperture) Name() string { return a.name }

func (a *Aperture) Observe(s trace.Sample) {
	if a.clipped == nil {
		a.clipped = make([]bool, s.Rays.Len())
	}
	for i, y := range s.Rays.Y {
		if i < len(a.clipped) && math.Abs(y) > a.radius {
			a.clipped[i] = true
		}
	}
}

func (a *Aperture) Value() float64 {
	if len(a.clipped) == 0 {
		return 1.0
	}
	passed := 0
	for _, c := range a.clipped {
		if !c {
			passed++
		}
	}
	return float64(passed) / float64(len(a.clipped))
}

func (a *Aperture) Reset() { a.clipped = nil }
