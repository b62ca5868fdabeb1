package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/metrics"
	"github.com/san-kum/opticlab/internal/trace"
)

func spot() trace.Metric { return metrics.NewSpot() }

func TestGridSearchBestFocus(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Samples = 1
	gs := NewGridSearch(Param{Element: 1, Field: "length", Values: Linspace(80e-3, 120e-3, 41)})

	res, err := gs.Search(context.Background(), cfg, spot)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Evaluated != 41 || res.Failed != 0 {
		t.Errorf("evaluated %d, failed %d", res.Evaluated, res.Failed)
	}
	if got := res.Best["focus.length"]; math.Abs(got-100e-3) > 1e-9 {
		t.Errorf("expected best length 0.1, got %g", got)
	}
	if res.Value > 1e-12 {
		t.Errorf("expected zero spot at focus, got %g", res.Value)
	}
	if cfg.Elements[1].Length != 100e-3 {
		t.Error("search modified the input prescription")
	}
}

func TestGridSearchTwoParams(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Samples = 1
	gs := NewGridSearch(
		Param{Element: 0, Field: "focal", Values: []float64{90e-3, 110e-3}},
		Param{Element: 1, Field: "length", Values: []float64{80e-3, 110e-3, 130e-3}},
	)

	res, err := gs.Search(context.Background(), cfg, spot)
	if err != nil {
		t.Fatal(err)
	}
	if res.Evaluated != 6 {
		t.Errorf("expected 6 evaluations, got %d", res.Evaluated)
	}
	if res.Best["lens.focal"] != 110e-3 || res.Best["focus.length"] != 110e-3 {
		t.Errorf("unexpected best point %v", res.Best)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Samples = 1

	// Without a beam the waist metric is undefined at every point.
	gs := NewGridSearch(Param{Element: 1, Field: "length", Values: []float64{50e-3, 100e-3}})
	res, err := gs.Search(context.Background(), cfg, func() trace.Metric { return metrics.NewBeamWaist() })
	if !errors.Is(err, ErrNoFeasible) {
		t.Fatalf("expected ErrNoFeasible, got %v", err)
	}
	if res.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", res.Failed)
	}
}

func TestGridSearchInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		name   string
		params []Param
		want   error
	}{
		{"no params", nil, ErrEmptyGrid},
		{"no values", []Param{{Element: 0, Field: "focal"}}, ErrEmptyGrid},
		{"bad field", []Param{{Element: 0, Field: "colour", Values: []float64{1}}}, ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGridSearch(tt.params...).Search(context.Background(), cfg, spot)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	_, err := NewGridSearch(Param{Element: 7, Field: "focal", Values: []float64{1}}).Search(context.Background(), cfg, spot)
	if err == nil {
		t.Error("expected out of range element error")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gs := NewGridSearch(Param{Element: 1, Field: "length", Values: []float64{1, 2}})
	if _, err := gs.Search(ctx, config.DefaultConfig(), spot); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseParam(t *testing.T) {
	cfg := config.DefaultConfig()

	p, err := ParseParam(cfg, "focus:length:0.08:0.12:5")
	if err != nil {
		t.Fatal(err)
	}
	if p.Element != 1 || p.Field != "length" || len(p.Values) != 5 {
		t.Errorf("unexpected param %+v", p)
	}
	if math.Abs(p.Values[2]-0.1) > 1e-12 {
		t.Errorf("expected midpoint 0.1, got %g", p.Values[2])
	}

	p, err = ParseParam(cfg, "0:focal:0.1:0.1:1")
	if err != nil || p.Element != 0 || len(p.Values) != 1 {
		t.Errorf("index lookup failed: %+v %v", p, err)
	}

	for _, bad := range []string{"focus:length:1:2", "nope:length:1:2:3", "focus:colour:1:2:3", "focus:length:a:2:3", "focus:length:1:b:3", "focus:length:1:2:0"} {
		if _, err := ParseParam(cfg, bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestLinspace(t *testing.T) {
	if got := Linspace(0, 1, 0); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := Linspace(2, 5, 1); len(got) != 1 || got[0] != 2 {
		t.Errorf("expected [2], got %v", got)
	}
	got := Linspace(0, 1, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 0.5 || got[2] != 1 {
		t.Errorf("unexpected %v", got)
	}
}
