package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/opticlab/internal/trace"
)

// Envelope reports the largest |y| reached by any ray.
type Envelope struct {
	name string
	max  float64
}

func NewEnvelope() *Envelope {
	return &Envelope{name: "max_height"}
}

func (e *Envelope) Name() string { return e.name }

func (e *Envelope) Observe(s trace.Sample) {
	if s.Rays.Len() == 0 {
		return
	}
	e.max = math.Max(e.max, math.Max(math.Abs(floats.Min(s.Rays.Y)), math.Abs(floats.Max(s.Rays.Y))))
}

func (e *Envelope) Value() float64 { return e.max }

func (e *Envelope) Reset() { e.max = 0 }

// BeamWaist reports the smallest beam radius seen.
type BeamWaist struct {
	name string
	min  float64
	seen bool
}

func NewBeamWaist() *BeamWaist {
	return &BeamWaist{name: "min_beam_radius"}
}

func (b *BeamWaist) Name() string { return b.name }

func (b *BeamWaist) Observe(s trace.Sample) {
	if s.Beam == nil {
		return
	}
	w := s.Beam.W()
	if !b.seen || w < b.min {
		b.min = w
		b.seen = true
	}
}

func (b *BeamWaist) Value() float64 {
	if !b.seen {
		return math.NaN()
	}
	return b.min
}

func (b *BeamWaist) Reset() {
	b.min = 0
	b.seen = false
}

// Default returns the metric set used by the CLI.
func Default(clearRadius float64) []trace.Metric {
	return []trace.Metric{NewSpot(), NewEnvelope(), NewBeamWaist(), NewAperture(clearRadius)}
}
