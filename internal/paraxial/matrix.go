package paraxial

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix returns the 3x3 augmented matrix of el.
func (el Element) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		el.A, el.B, el.E,
		el.C, el.D, el.F,
		0, 0, 1,
	})
}

// FromMatrix rebuilds an element from a 3x3 augmented matrix.
func FromMatrix(m mat.Matrix, n1, n2 float64) (Element, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return Element{}, invalid("from matrix", fmt.Sprintf("shape %dx%d, want 3x3", r, c))
	}
	if m.At(2, 0) != 0 || m.At(2, 1) != 0 || m.At(2, 2) != 1 {
		return Element{}, invalid("from matrix", fmt.Sprintf("bottom row [%g %g %g], want [0 0 1]",
			m.At(2, 0), m.At(2, 1), m.At(2, 2)))
	}
	return Element{
		A: m.At(0, 0), B: m.At(0, 1), E: m.At(0, 2),
		C: m.At(1, 0), D: m.At(1, 1), F: m.At(1, 2),
		N1: n1, N2: n2,
	}, nil
}
