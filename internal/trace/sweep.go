package trace

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/opticlab/internal/config"
)

// Sweep traces cfg once per wavelength, running up to workers traces at a
// time (GOMAXPROCS when workers <= 0). newMetrics, if non-nil, supplies a
// fresh metric set for each run. Results keep the order of wavelengths.
func Sweep(ctx context.Context, cfg *config.Config, wavelengths []float64, workers int, newMetrics func() []Metric) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(wavelengths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, wl := range wavelengths {
		i, wl := i, wl
		g.Go(func() error {
			var metrics []Metric
			if newMetrics != nil {
				metrics = newMetrics()
			}
			res, err := RunConfig(ctx, cfg, wl, metrics...)
			if err != nil {
				return fmt.Errorf("wavelength %.4g: %w", wl, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
