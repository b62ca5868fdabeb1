package paraxial

import "fmt"

// RayBundle holds many rays sharing one index and wavelength. Heights and
// angles are evaluated elementwise; ray i is (Y[i], U[i]).
type RayBundle struct {
	Y          []float64
	U          []float64
	N          float64
	Wavelength float64
}

// NewBundle copies heights and angles into a bundle in air.
func NewBundle(y, u []float64) (RayBundle, error) {
	if len(y) != len(u) {
		return RayBundle{}, invalid("bundle", fmt.Sprintf("len(y)=%d != len(u)=%d", len(y), len(u)))
	}
	b := RayBundle{
		Y:          make([]float64, len(y)),
		U:          make([]float64, len(u)),
		N:          1,
		Wavelength: DefaultWavelength,
	}
	copy(b.Y, y)
	copy(b.U, u)
	return b, nil
}

// HeightFan returns rays at heights y sharing the angle u.
func HeightFan(y []float64, u float64) RayBundle {
	us := make([]float64, len(y))
	for i := range us {
		us[i] = u
	}
	b, _ := NewBundle(y, us)
	return b
}

// AngleFan returns rays from height y at angles u.
func AngleFan(y float64, u []float64) RayBundle {
	ys := make([]float64, len(u))
	for i := range ys {
		ys[i] = y
	}
	b, _ := NewBundle(ys, u)
	return b
}

// Len returns the number of complete rays, the shorter of Y and U.
func (b RayBundle) Len() int {
	return min(len(b.Y), len(b.U))
}

// Ray returns ray i as a scalar ray.
func (b RayBundle) Ray(i int) Ray {
	return Ray{Y: b.Y[i], U: b.U[i], N: b.N, Wavelength: b.Wavelength}
}

// Equal compares bundles elementwise.
func (b RayBundle) Equal(other RayBundle) bool {
	if b.N != other.N || b.Wavelength != other.Wavelength {
		return false
	}
	if len(b.Y) != len(other.Y) || len(b.U) != len(other.U) {
		return false
	}
	for i := range b.Y {
		if b.Y[i] != other.Y[i] {
			return false
		}
	}
	for i := range b.U {
		if b.U[i] != other.U[i] {
			return false
		}
	}
	return true
}

// Through replaces b with the bundle leaving e. The old slices are not
// written to.
func (b *RayBundle) Through(e Element) {
	*b = e.ApplyBundle(*b)
}
