package paraxial

import "math"

// Transfer propagates a physical distance t through index n. Both sides
// of the element sit in n unless WithIndices says otherwise.
func Transfer(t, n float64, opts ...ElementOption) Element {
	return newSurface(1, t/n, 0, 1, n, n, opts)
}

// Refraction is a spherical interface of radius r from index n1 to n2.
// aoi is the angle of incidence of the axial ray (rad). r is positive for
// a surface convex toward the incoming light.
func Refraction(r, n1, n2, aoi float64, plane Plane, opts ...ElementOption) (Element, error) {
	if err := plane.valid(); err != nil {
		return Element{}, err
	}
	aoe := math.Asin(n1 * math.Sin(aoi) / n2)
	c1 := math.Cos(aoi)
	c2 := math.Cos(aoe)

	a, d, denominator := 1.0, 1.0, 1.0
	if plane == Tangential {
		denominator = c1 * c2
		a = c2 / c1
		d = c1 / c2
	}
	dne := (n2*c2 - n1*c1) / denominator
	return newSurface(a, 0, -dne/r, d, n1, n2, opts), nil
}

// Mirror is a spherical mirror of radius r, positive when convex.
func Mirror(r, aoi float64, plane Plane, opts ...ElementOption) (Element, error) {
	var re float64
	switch plane {
	case Tangential:
		re = r * math.Cos(aoi)
	case Sagittal:
		re = r / math.Cos(aoi)
	default:
		return Element{}, plane.valid()
	}
	return newSurface(1, 0, 2/re, 1, 1, 1, opts), nil
}

// Duct is a length t of graded-index medium with n(y) = n0 - n2·y²/2.
func Duct(t, n0, n2 float64, opts ...ElementOption) Element {
	g := math.Sqrt(n2 / n0)
	s, c := math.Sincos(g * t)
	return newSurface(c, s/(n0*g), -n0*g*s, c, 1, 1, opts)
}

// GratingSpec describes a reflective grating. Lines run sagittally with
// pitch D in the tangential direction.
type GratingSpec struct {
	R          float64 // radius, positive convex
	Order      float64
	D          float64 // pitch
	Wavelength float64
	AOI        float64
	Plane      Plane
	// Sign +1 is the sin(θ1) - sin(θ2) convention, -1 is sin(θ1) + sin(θ2).
	Sign int
}

// DefaultGrating returns a flat 1 µm pitch grating used in -1 order.
func DefaultGrating() GratingSpec {
	return GratingSpec{
		R:          math.Inf(1),
		Order:      -1,
		D:          1e-6,
		Wavelength: DefaultWavelength,
		Plane:      Tangential,
		Sign:       1,
	}
}

// ExitAngle returns the diffracted angle from the grating equation.
func (g GratingSpec) ExitAngle() float64 {
	return math.Asin(g.Order*g.Wavelength/g.D + normSign(g.Sign)*math.Sin(g.AOI))
}

// Grating is a diffraction grating following Siegman.
func Grating(g GratingSpec, opts ...ElementOption) (Element, error) {
	if err := g.Plane.valid(); err != nil {
		return Element{}, err
	}
	c1 := math.Cos(g.AOI)
	c2 := math.Cos(g.ExitAngle())

	if g.Plane == Tangential {
		rt := 2 * g.R * c1 * c2 / (c1 + c2)
		m := c2 / c1
		return newSurface(m, 0, 2/rt, 1/m, 1, 1, opts), nil
	}
	rs := 2 * g.R / (c1 + c2)
	return newSurface(1, 0, 2/rs, 1, 1, 1, opts), nil
}

// ThinLens is an ideal lens of focal length f.
func ThinLens(f float64, opts ...ElementOption) Element {
	return newSurface(1, 0, -1/f, 1, 1, 1, opts)
}

// ThickLens is two refracting surfaces r1, r2 separated by thickness t of
// glass index nGlass, immersed in nAmbient.
func ThickLens(r1, r2, t, nGlass, nAmbient float64, opts ...ElementOption) Element {
	front, _ := Refraction(r1, nAmbient, nGlass, 0, Tangential)
	rear, _ := Refraction(r2, nGlass, nAmbient, 0, Tangential)
	net := Sequence(front, Transfer(t, nGlass), rear)
	return newSurface(net.A, net.B, net.C, net.D, net.N1, net.N2, opts)
}
