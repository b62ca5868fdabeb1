// Package equations collects closed-form optical relations used alongside
// matrix tracing: resolution limits, the grating equation, fiber coupling
// and Fresnel reflection. Lengths are in µm and angles in degrees unless a
// function says otherwise.
package equations

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownPolarization is returned for polarizations other than S and P.
var ErrUnknownPolarization = errors.New("equations: unknown polarization")

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// RayleighResolution returns the smallest resolvable image-space
// separation of a lens working at f-number fno.
func RayleighResolution(wavelength, fno float64) float64 {
	return 1.22 * wavelength * fno
}

// DiffractionAngle solves the grating equation for the diffracted angle.
// sign >= 0 selects sin(θ1) - sin(θ2) = mλ/Λ, otherwise sin(θ1) + sin(θ2).
func DiffractionAngle(wavelength, period, angleIn, order float64, sign int) float64 {
	s := 1.0
	if sign < 0 {
		s = -1
	}
	return degrees(math.Asin(order*wavelength/period + s*math.Sin(radians(angleIn))))
}

// Offsets describes the misalignment between an incoming focus and a
// fiber mode. Angular is in degrees.
type Offsets struct {
	Transverse   float64
	Longitudinal float64
	Angular      float64
}

// FiberCouplingEfficiency returns the overlap of two Gaussian modes with
// 1/e² waists incomingWaist and fiberWaist, in a medium of index n.
func FiberCouplingEfficiency(wavelength, incomingWaist, fiberWaist float64, off Offsets, n float64) float64 {
	k := 2 * math.Pi * n / wavelength
	w2 := incomingWaist * incomingWaist
	a := k * k * w2 / 2
	d := (fiberWaist / incomingWaist) * (fiberWaist / incomingWaist)
	f := 2 * off.Transverse / (k * w2)
	g := 2 * off.Longitudinal / (k * w2)
	b := g*g + (d+1)*(d+1)
	s := math.Sin(radians(off.Angular))
	c := (d+1)*f*f + 2*d*f*g*s + d*(g*g+d+1)*s*s
	return 4 * d / b * math.Exp(-a*c/b)
}

// CriticalAngle returns the total internal reflection angle inside glass
// of index n relative to its surroundings.
func CriticalAngle(n float64) float64 {
	return degrees(math.Asin(1 / n))
}

// NAFromIndices returns the numerical aperture of a step-index fiber.
func NAFromIndices(core, cladding float64) float64 {
	return math.Sqrt(core*core - cladding*cladding)
}

// BestFitWaist returns the 1/e² radius of the Gaussian closest to the
// fundamental mode of a step-index fiber (Marcuse).
func BestFitWaist(core, cladding, coreRadius, wavelength float64) float64 {
	v := 2 * math.Pi * coreRadius / wavelength * NAFromIndices(core, cladding)
	return coreRadius * (0.65 + 1.619/math.Pow(v, 1.5) + 2.879/math.Pow(v, 6))
}

// Polarization selects the field component for FresnelReflection.
type Polarization int

const (
	// P lies in the plane of incidence.
	P Polarization = iota
	// S is perpendicular to the plane of incidence.
	S
)

// ParsePolarization accepts "s" or "p" in either case.
func ParsePolarization(s string) (Polarization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p":
		return P, nil
	case "s":
		return S, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolarization, s)
	}
}

func (p Polarization) String() string {
	switch p {
	case P:
		return "P"
	case S:
		return "S"
	default:
		return fmt.Sprintf("Polarization(%d)", int(p))
	}
}

// FresnelReflection returns the field reflection coefficient ρ at an
// interface from n1 to n2; the reflected power is ρ².
func FresnelReflection(n1, n2, aoi float64, pol Polarization) (float64, error) {
	th := radians(aoi)
	m2 := (n2 / n1) * (n2 / n1)
	root := math.Sqrt(m2 - math.Sin(th)*math.Sin(th))
	cos := math.Cos(th)

	switch pol {
	case P:
		return (root - m2*cos) / (root + m2*cos), nil
	case S:
		return (cos - root) / (cos + root), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownPolarization, pol)
	}
}
