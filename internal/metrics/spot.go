package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/opticlab/internal/trace"
)

// Spot reports the RMS ray height about the centroid at the last sample.
type Spot struct {
	name string
	last []float64
}

func NewSpot() *Spot {
	return &Spot{name: "rms_spot"}
}

func (s *Spot) Name() string { return s.name }

func (s *Spot) Observe(smp trace.Sample) {
	s.last = smp.Rays.Y
}

func (s *Spot) Value() float64 {
	if len(s.last) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(s.last, nil)
	return std
}

func (s *Spot) Reset() { s.last = nil }
