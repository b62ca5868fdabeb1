package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/opticlab/internal/trace"
)

// PlotOptions sizes an asciigraph chart.
type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 12}
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow,
	asciigraph.Magenta, asciigraph.Cyan, asciigraph.White,
}

// PlotRays charts the height of each ray in mm against sample index.
// At most maxRays evenly chosen rays are drawn.
func PlotRays(r *trace.Result, maxRays int, opts PlotOptions) (string, error) {
	if r.Len() == 0 || r.Rays() == 0 {
		return "", fmt.Errorf("no rays to plot")
	}
	idx := pickRays(r.Rays(), maxRays)
	series := make([][]float64, len(idx))
	colors := make([]asciigraph.AnsiColor, len(idx))
	for k, i := range idx {
		series[k] = scaled(r.Ray(i), 1e3)
		colors[k] = seriesColors[k%len(seriesColors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("%s: ray height (mm) over %.1f mm", r.Name, span(r.Z)*1e3)),
	), nil
}

// PlotCaustic charts ±w of the traced beam in µm.
func PlotCaustic(r *trace.Result, opts PlotOptions) (string, error) {
	if !r.HasBeam() {
		return "", fmt.Errorf("no beam traced")
	}
	upper := scaled(r.BeamW, 1e6)
	lower := scaled(r.BeamW, -1e6)
	caption := fmt.Sprintf("%s: beam radius (µm)", r.Name)
	if z, w, ok := trace.Waist(r); ok {
		caption += fmt.Sprintf(", waist %.2f µm at z=%.2f mm", w*1e6, z*1e3)
	}
	return asciigraph.PlotMany([][]float64{upper, lower},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(asciigraph.Magenta, asciigraph.Magenta),
		asciigraph.Caption(caption),
	), nil
}

// PlotSeries charts a single metric, such as focal shift against
// wavelength.
func PlotSeries(values []float64, caption string, opts PlotOptions) string {
	return asciigraph.Plot(values,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}

func pickRays(n, limit int) []int {
	if limit <= 0 || limit >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	if limit == 1 {
		return []int{n / 2}
	}
	idx := make([]int, limit)
	for k := range idx {
		idx[k] = k * (n - 1) / (limit - 1)
	}
	return idx
}

// scaled copies values multiplied by k with non-finite entries clamped
// to zero, which asciigraph cannot place.
func scaled(values []float64, k float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v * k
		}
	}
	return out
}

func span(z []float64) float64 {
	if len(z) == 0 {
		return 0
	}
	return z[len(z)-1] - z[0]
}
