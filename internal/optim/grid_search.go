package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/trace"
)

var (
	ErrUnknownField = errors.New("optim: unknown element field")
	ErrEmptyGrid    = errors.New("optim: empty grid")
	ErrNoFeasible   = errors.New("optim: no grid point could be traced")
)

// Param scans one numeric field of one prescription element.
type Param struct {
	Element int
	Field   string
	Values  []float64
}

// Key names the parameter as label.field, falling back to the element
// index when unlabeled.
func (p Param) Key(cfg *config.Config) string {
	label := cfg.Elements[p.Element].Label
	if label == "" {
		label = fmt.Sprintf("#%d", p.Element)
	}
	return label + "." + p.Field
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Result is the best grid point found.
type Result struct {
	Best      map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Search traces cfg at every grid point and returns the point minimising
// the metric built by newMetric. Points whose trace fails or whose metric is
// NaN are counted as failed and skipped.
func (g *GridSearch) Search(ctx context.Context, cfg *config.Config, newMetric func() trace.Metric) (*Result, error) {
	if len(g.params) == 0 {
		return nil, ErrEmptyGrid
	}
	for _, p := range g.params {
		if p.Element < 0 || p.Element >= len(cfg.Elements) {
			return nil, fmt.Errorf("optim: element %d out of range [0, %d)", p.Element, len(cfg.Elements))
		}
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyGrid, p.Key(cfg))
		}
		if _, err := field(&cfg.Elements[p.Element], p.Field); err != nil {
			return nil, err
		}
	}

	res := &Result{Value: math.Inf(1)}
	current := make([]float64, len(g.params))
	if err := g.searchRecursive(ctx, 0, cfg, current, newMetric, res); err != nil {
		return nil, err
	}
	if res.Best == nil {
		return res, ErrNoFeasible
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, cfg *config.Config, current []float64, newMetric func() trace.Metric, res *Result) error {
	if depth == len(g.params) {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.Evaluated++

		val, err := g.evaluate(ctx, cfg, current, newMetric)
		if err != nil || math.IsNaN(val) {
			res.Failed++
			return nil
		}
		if val < res.Value {
			res.Value = val
			res.Best = make(map[string]float64, len(g.params))
			for i, p := range g.params {
				res.Best[p.Key(cfg)] = current[i]
			}
		}
		return nil
	}

	for _, v := range g.params[depth].Values {
		current[depth] = v
		if err := g.searchRecursive(ctx, depth+1, cfg, current, newMetric, res); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, cfg *config.Config, values []float64, newMetric func() trace.Metric) (float64, error) {
	cp := *cfg
	cp.Elements = append([]config.ElementSpec(nil), cfg.Elements...)
	for i, p := range g.params {
		f, _ := field(&cp.Elements[p.Element], p.Field)
		*f = values[i]
	}

	m := newMetric()
	r, err := trace.RunConfig(ctx, &cp, cp.Wavelength, m)
	if err != nil {
		return 0, err
	}
	return r.Metrics[m.Name()], nil
}

func field(spec *config.ElementSpec, name string) (*float64, error) {
	switch name {
	case "length":
		return &spec.Length, nil
	case "focal":
		return &spec.Focal, nil
	case "radius":
		return &spec.Radius, nil
	case "radius2":
		return &spec.Radius2, nil
	case "aoi_deg":
		return &spec.AOIDeg, nil
	case "decenter":
		return &spec.Decenter, nil
	case "tilt":
		return &spec.Tilt, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
