package paraxial

import "math"

// CardinalPoints holds the first-order properties of an element, measured
// from its input (1) and output (2) planes.
type CardinalPoints struct {
	F1, P1, N1, FocalLength1 float64
	F2, P2, N2, FocalLength2 float64
}

// quotient returns num/den, or an infinity of the given sign when den is
// zero (afocal systems).
func quotient(num, den float64, sign int) float64 {
	if den == 0 {
		return math.Inf(sign)
	}
	return num / den
}

// F1 returns the front focal point.
func (el Element) F1() float64 { return quotient(el.N1*el.D, el.C, -1) }

// P1 returns the front principal plane.
func (el Element) P1() float64 { return quotient(el.N1*(el.D-1), el.C, -1) }

// N1Point returns the front nodal point. The name avoids the N1 index field.
func (el Element) N1Point() float64 { return quotient(el.D*el.N1-el.N2, el.C, -1) }

// FocalLength1 returns the front effective focal length.
func (el Element) FocalLength1() float64 { return quotient(-el.N1, el.C, 1) }

// F2 returns the rear focal point.
func (el Element) F2() float64 { return quotient(-el.N2*el.A, el.C, 1) }

// P2 returns the rear principal plane.
func (el Element) P2() float64 { return quotient(el.N2*(1-el.A), el.C, 1) }

// N2Point returns the rear nodal point.
func (el Element) N2Point() float64 { return quotient(el.N1-el.A*el.N2, el.C, 1) }

// FocalLength2 returns the rear effective focal length.
func (el Element) FocalLength2() float64 { return quotient(-el.N2, el.C, 1) }

// Cardinal evaluates all eight cardinal quantities.
func (el Element) Cardinal() CardinalPoints {
	return CardinalPoints{
		F1:           el.F1(),
		P1:           el.P1(),
		N1:           el.N1Point(),
		FocalLength1: el.FocalLength1(),
		F2:           el.F2(),
		P2:           el.P2(),
		N2:           el.N2Point(),
		FocalLength2: el.FocalLength2(),
	}
}

// Afocal reports whether the element has no finite focal point.
func (el Element) Afocal() bool {
	return el.C == 0
}
