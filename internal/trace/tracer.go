package trace

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/paraxial"
)

// Tracer propagates launch states through a fixed list of stages.
type Tracer struct {
	stages    []Stage
	metrics   []Metric
	observers []Observer
}

func New(stages []Stage) *Tracer {
	return &Tracer{
		stages:    stages,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (t *Tracer) AddMetric(m Metric)     { t.metrics = append(t.metrics, m) }
func (t *Tracer) AddObserver(o Observer) { t.observers = append(t.observers, o) }

// Stages returns the stage list.
func (t *Tracer) Stages() []Stage { return t.stages }

// System composes every stage.
func (t *Tracer) System() paraxial.Element {
	elems := make([]paraxial.Element, len(t.stages))
	for i, s := range t.stages {
		elems[i] = s.Element
	}
	return paraxial.Sequence(elems...)
}

// Length returns the summed axial length of all stages.
func (t *Tracer) Length() float64 {
	total := 0.0
	for _, s := range t.stages {
		total += s.Length
	}
	return total
}

func (t *Tracer) validate(opts Options) error {
	if len(t.stages) == 0 {
		return ErrNoStages
	}
	if opts.Samples < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSample, opts.Samples)
	}
	return nil
}

// Run traces launch through every stage. On cancellation the partial
// result is returned with the context error.
func (t *Tracer) Run(ctx context.Context, launch Launch, opts Options) (*Result, error) {
	if err := t.validate(opts); err != nil {
		return nil, err
	}

	capacity := 1
	for _, s := range t.stages {
		if s.Sliceable() {
			capacity += opts.Samples
		} else {
			capacity++
		}
	}

	result := &Result{
		Wavelength: launch.Rays.Wavelength,
		Z:          make([]float64, 0, capacity),
		Stage:      make([]int, 0, capacity),
		Heights:    make([][]float64, 0, capacity),
		Angles:     make([][]float64, 0, capacity),
		Labels:     make([]string, len(t.stages)),
		System:     t.System(),
		Metrics:    make(map[string]float64),
	}
	if launch.Beam != nil {
		result.Wavelength = launch.Beam.Wavelength
		result.BeamW = make([]float64, 0, capacity)
		result.BeamR = make([]float64, 0, capacity)
	}
	for i, s := range t.stages {
		result.Labels[i] = s.Label
	}

	for _, m := range t.metrics {
		m.Reset()
	}

	rays := launch.Rays
	var beam *paraxial.GaussianBeam
	if launch.Beam != nil {
		b := *launch.Beam
		beam = &b
	}
	z := 0.0

	t.record(result, Sample{Z: z, Stage: -1, Rays: rays, Beam: beam})

	for i, s := range t.stages {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if !s.Sliceable() || opts.Samples == 1 {
			rays, beam = advance(s.Element, rays, beam)
			z += s.Length
			t.record(result, Sample{Z: z, Stage: i, Rays: rays, Beam: beam})
			continue
		}

		dz := s.Length / float64(opts.Samples)
		step, err := s.step(dz)
		if err != nil {
			return result, StageError{Stage: i, Label: s.Label, Z: z, Wrapped: err}
		}
		start := z
		for k := 1; k <= opts.Samples; k++ {
			rays, beam = advance(step, rays, beam)
			z = start + float64(k)*dz
			t.record(result, Sample{Z: z, Stage: i, Rays: rays, Beam: beam})
		}
	}

	result.Final = rays
	result.Beam = beam
	for _, m := range t.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func advance(el paraxial.Element, rays paraxial.RayBundle, beam *paraxial.GaussianBeam) (paraxial.RayBundle, *paraxial.GaussianBeam) {
	rays = el.ApplyBundle(rays)
	if beam != nil {
		next := el.ApplyBeam(*beam)
		beam = &next
	}
	return rays, beam
}

func (t *Tracer) record(r *Result, s Sample) {
	r.Z = append(r.Z, s.Z)
	r.Stage = append(r.Stage, s.Stage)
	r.Heights = append(r.Heights, s.Rays.Y)
	r.Angles = append(r.Angles, s.Rays.U)
	if s.Beam != nil {
		r.BeamW = append(r.BeamW, s.Beam.W())
		r.BeamR = append(r.BeamR, s.Beam.R())
	}
	for _, m := range t.metrics {
		m.Observe(s)
	}
	for _, o := range t.observers {
		o.OnSample(s)
	}
}

// StagesFromConfig builds the stage list of cfg at wavelength (m).
func StagesFromConfig(cfg *config.Config, wavelength float64) ([]Stage, error) {
	cond := cfg.Conditions(wavelength)
	stages := make([]Stage, 0, len(cfg.Elements))
	for i, spec := range cfg.Elements {
		el, err := spec.Build(cond)
		if err != nil {
			return nil, StageError{Stage: i, Label: spec.Label, Wrapped: err}
		}
		label := spec.Label
		if label == "" {
			label = fmt.Sprintf("%s#%d", spec.Kind, i)
		}
		stage := Stage{Label: label, Kind: spec.Kind, Length: spec.Length, Element: el}
		if spec.Sliceable() {
			spec := spec
			stage.step = func(dz float64) (paraxial.Element, error) {
				return spec.Slice(cond, dz)
			}
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// LaunchFromConfig builds the ray fan and optional beam of cfg.
func LaunchFromConfig(cfg *config.Config, wavelength float64) (Launch, error) {
	n, err := cfg.Medium.Resolve(cfg.Conditions(wavelength))
	if err != nil {
		return Launch{}, err
	}
	beam, err := cfg.LaunchBeam(wavelength)
	if err != nil {
		return Launch{}, err
	}
	return Launch{Rays: Fan(cfg.Rays, n, wavelength), Beam: beam}, nil
}

// RunConfig traces cfg at a single wavelength with the given metrics.
func RunConfig(ctx context.Context, cfg *config.Config, wavelength float64, metrics ...Metric) (*Result, error) {
	stages, err := StagesFromConfig(cfg, wavelength)
	if err != nil {
		return nil, err
	}
	launch, err := LaunchFromConfig(cfg, wavelength)
	if err != nil {
		return nil, err
	}
	tr := New(stages)
	for _, m := range metrics {
		tr.AddMetric(m)
	}
	res, err := tr.Run(ctx, launch, Options{Samples: cfg.Samples})
	if res != nil {
		res.Name = cfg.Name
	}
	return res, err
}

// Focus returns the axial position, measured from the end of the last
// stage, where a collimated input comes to focus. It is +Inf for afocal
// systems.
func Focus(sys paraxial.Element) float64 {
	if sys.Afocal() {
		return math.Inf(1)
	}
	return sys.F2()
}
