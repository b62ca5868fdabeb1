package paraxial

import "fmt"

// DefaultWavelength is the vacuum wavelength assumed when none is given (m).
const DefaultWavelength = 532e-9

// Ray is a paraxial ray at a plane: height Y, physical angle U, local
// index N and vacuum wavelength.
type Ray struct {
	Y          float64
	U          float64
	N          float64
	Wavelength float64
}

// NewRay returns a ray in air at the default wavelength.
func NewRay(y, u float64) Ray {
	return Ray{Y: y, U: u, N: 1, Wavelength: DefaultWavelength}
}

// NewRayIn returns a ray in a medium of index n.
func NewRayIn(y, u, n, wavelength float64) Ray {
	return Ray{Y: y, U: u, N: n, Wavelength: wavelength}
}

// Equal reports whether all four attributes match exactly.
func (r Ray) Equal(other Ray) bool {
	return r.Y == other.Y && r.U == other.U && r.N == other.N && r.Wavelength == other.Wavelength
}

// ReducedAngle returns n·u.
func (r Ray) ReducedAngle() float64 {
	return r.N * r.U
}

// Through replaces r with the ray leaving e.
func (r *Ray) Through(e Element) {
	*r = e.Apply(*r)
}

func (r Ray) String() string {
	return fmt.Sprintf("[[%g]\n [%g]]", r.Y, r.N*r.U)
}
