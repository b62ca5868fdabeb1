package viz

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/opticlab/internal/trace"
)

// DiagramOptions controls RayDiagram.
type DiagramOptions struct {
	Width, Height int
	// Beam adds the ±w envelope when the trace carries a beam.
	Beam bool
	// Rays disables ray paths when false and Beam is set.
	Rays bool
}

func DefaultDiagramOptions() DiagramOptions {
	return DiagramOptions{Width: 80, Height: 16, Rays: true}
}

// LumpedPositions returns the axial positions of stages applied whole,
// detected as a stage change without axial advance.
func LumpedPositions(r *trace.Result) []float64 {
	var out []float64
	for i := 1; i < r.Len(); i++ {
		if r.Stage[i] != r.Stage[i-1] && r.Z[i] == r.Z[i-1] {
			out = append(out, r.Z[i])
		}
	}
	return out
}

// extent returns the largest absolute height drawn.
func extent(r *trace.Result, opts DiagramOptions) float64 {
	m := 0.0
	if opts.Rays {
		for _, h := range r.Heights {
			if len(h) > 0 {
				m = math.Max(m, math.Max(math.Abs(floats.Min(h)), math.Abs(floats.Max(h))))
			}
		}
	}
	if opts.Beam && r.HasBeam() {
		m = math.Max(m, floats.Max(r.BeamW))
	}
	return m * 1.05
}

// RayDiagram draws the optical axis, lumped element markers, ray paths
// and optionally the beam envelope of r.
func RayDiagram(r *trace.Result, opts DiagramOptions) *Canvas {
	c := NewCanvas(opts.Width, opts.Height)
	if r.Len() == 0 {
		return c
	}
	v := newViewport(c, r.Z[0], r.Z[r.Len()-1], extent(r, opts))

	_, axis := v.dot(0, 0)
	c.DashedHLine(axis)
	for _, z := range LumpedPositions(r) {
		x, _ := v.dot(z, 0)
		c.VLine(x)
	}

	if opts.Rays {
		for ray := 0; ray < r.Rays(); ray++ {
			drawPath(c, v, r.Z, r.Ray(ray), 1)
		}
	}
	if opts.Beam && r.HasBeam() {
		drawPath(c, v, r.Z, r.BeamW, 1)
		drawPath(c, v, r.Z, r.BeamW, -1)
	}
	return c
}

func drawPath(c *Canvas, v viewport, z, y []float64, sign float64) {
	px, py := v.dot(z[0], sign*y[0])
	for i := 1; i < len(z); i++ {
		x, yy := v.dot(z[i], sign*y[i])
		c.DrawLine(px, py, x, yy)
		px, py = x, yy
	}
}
