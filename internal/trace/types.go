package trace

import "github.com/san-kum/opticlab/internal/paraxial"

// Stage is one prescription element placed along the axis.
type Stage struct {
	Label   string
	Kind    string
	Length  float64
	Element paraxial.Element

	// step returns the element covering the first dz of the stage; nil
	// for lumped stages that can only be applied whole.
	step func(dz float64) (paraxial.Element, error)
}

// Sliceable reports whether samples can be taken inside the stage.
func (s Stage) Sliceable() bool { return s.step != nil && s.Length > 0 }

// Launch is the state entering the first stage.
type Launch struct {
	Rays paraxial.RayBundle
	Beam *paraxial.GaussianBeam
}

// Sample is the state at one axial position. Rays and Beam are owned by
// the trace and must not be modified.
type Sample struct {
	Z     float64
	Stage int
	Rays  paraxial.RayBundle
	Beam  *paraxial.GaussianBeam
}

// Metric accumulates a scalar over the samples of a trace.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified of every sample as it is produced.
type Observer interface {
	OnSample(s Sample)
}

// Options controls sampling.
type Options struct {
	// Samples is the number of steps taken through each sliceable stage.
	Samples int
}

// Result is the sampled propagation at one wavelength.
type Result struct {
	Name       string
	Wavelength float64
	Z          []float64
	Stage      []int
	// Heights and Angles are indexed [sample][ray].
	Heights [][]float64
	Angles  [][]float64
	// BeamW and BeamR are empty when no beam was launched.
	BeamW   []float64
	BeamR   []float64
	Labels  []string
	System  paraxial.Element
	Final   paraxial.RayBundle
	Beam    *paraxial.GaussianBeam
	Metrics map[string]float64
}

// Len returns the number of samples.
func (r *Result) Len() int { return len(r.Z) }

// HasBeam reports whether beam columns were recorded.
func (r *Result) HasBeam() bool { return len(r.BeamW) > 0 }

// Ray returns the height history of ray i.
func (r *Result) Ray(i int) []float64 {
	out := make([]float64, len(r.Heights))
	for k, h := range r.Heights {
		out[k] = h[i]
	}
	return out
}

// Rays returns the number of traced rays.
func (r *Result) Rays() int {
	if len(r.Heights) == 0 {
		return 0
	}
	return len(r.Heights[0])
}
