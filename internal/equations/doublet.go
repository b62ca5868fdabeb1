package equations

import "math"

// DoubletSolution holds the four surface curvatures (1/length) of a
// cemented achromat, front to back.
type DoubletSolution struct {
	C1, C2, C3, C4 float64
}

// AchromaticDoublet solves the thin-lens G-sums (Laikin) for a doublet of
// focal length f free of spherical aberration, coma and axial color.
// Element A (index na, Abbe number va) faces the object. It returns zero,
// one or two solutions.
func AchromaticDoublet(f, na, va, nb, vb float64) []DoubletSolution {
	fa := (va - vb) * f / va
	fb := (vb - va) * f / vb
	ca := 1 / (fa * (na - 1))
	cb := 1 / (fb * (nb - 1))

	h := g8(nb)*cb*cb - g8(na)*ca*ca - g7(nb)*cb/f
	i := g5(na) * ca / 4
	k := g5(nb) * cb / 4
	a := g1(na)*ca*ca*ca + g1(nb)*cb*cb*cb - g3(nb)*cb*cb/f + g6(nb)*cb/(f*f)
	b := -g2(na) * ca * ca
	e := g4(na) * ca
	j := g4(nb) * cb
	d := g2(nb)*cb*cb - g5(nb)*cb/f

	p := a + h*(j*h/k-d)/k
	q := b + i*(2*j*h/k-d)/k
	r := e + j*(i/k)*(i/k)

	disc := q*q - 4*p*r
	if disc < 0 {
		return nil
	}

	solve := func(c1 float64) DoubletSolution {
		c4 := -(h + i*c1) / k
		return DoubletSolution{C1: c1, C2: c1 - ca, C3: cb + c4, C4: c4}
	}

	sols := []DoubletSolution{solve((-q + math.Sqrt(disc)) / (2 * r))}
	if disc == 0 {
		return sols
	}
	return append(sols, solve((-q-math.Sqrt(disc))/(2*r)))
}

func g1(n float64) float64 { return n * n * (n - 1) / 2 }
func g2(n float64) float64 { return (2*n + 1) * (n - 1) / 2 }
func g3(n float64) float64 { return (3*n + 1) * (n - 1) / 2 }
func g4(n float64) float64 { return (n + 2) * (n - 1) / (2 * n) }
func g5(n float64) float64 { return 2 * (n*n - 1) / n }
func g6(n float64) float64 { return (3*n + 2) * (n - 1) / (2 * n) }
func g7(n float64) float64 { return (2*n + 1) * (n - 1) / (2 * n) }
func g8(n float64) float64 { return n * (n - 1) / 2 }
