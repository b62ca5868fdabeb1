package paraxial

import (
	"fmt"
	"math"
)

// GaussianBeam is a Gaussian beam carried as a complex ray: Y/U is the
// physical beam parameter q = z + i·zR and U = 1/(n·q_reduced).
// All accessors return physical (non-reduced) quantities.
type GaussianBeam struct {
	Y          complex128
	U          complex128
	N          float64
	Wavelength float64
}

type beamConfig struct {
	wavelength float64
	n          float64
	sign       int
	q          *complex128
	r, w       *float64
	z, zR      *float64
}

// BeamOption names one beam parameter for NewGaussianBeam.
type BeamOption func(*beamConfig)

// WithQ sets the physical complex beam parameter.
func WithQ(q complex128) BeamOption { return func(c *beamConfig) { c.q = &q } }

// WithR sets the wavefront radius of curvature. Zero means flat.
func WithR(r float64) BeamOption { return func(c *beamConfig) { c.r = &r } }

// WithW sets the 1/e² beam radius.
func WithW(w float64) BeamOption { return func(c *beamConfig) { c.w = &w } }

// WithZ sets the axial position relative to the waist.
func WithZ(z float64) BeamOption { return func(c *beamConfig) { c.z = &z } }

// WithZR sets the Rayleigh range.
func WithZR(zR float64) BeamOption { return func(c *beamConfig) { c.zR = &zR } }

// WithIndex sets the index of the medium the beam starts in.
func WithIndex(n float64) BeamOption { return func(c *beamConfig) { c.n = n } }

// WithWavelength sets the vacuum wavelength.
func WithWavelength(l float64) BeamOption { return func(c *beamConfig) { c.wavelength = l } }

// WithSign picks the root for the quadratic solves: +1 near-field (or
// leaving the waist), -1 far-field (or approaching the waist).
func WithSign(s int) BeamOption { return func(c *beamConfig) { c.sign = s } }

// NewGaussianBeam builds a beam from one pair of physical parameters.
// Pairs are tried in order: q; R,w; z,zR; R,z; R,zR; w,z; w,zR.
func NewGaussianBeam(opts ...BeamOption) (GaussianBeam, error) {
	cfg := beamConfig{wavelength: DefaultWavelength, n: 1, sign: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.r != nil && *cfg.r == 0 {
		inf := math.Inf(1)
		cfg.r = &inf
	}
	if cfg.w != nil && *cfg.w == 0 {
		return GaussianBeam{}, invalid("gaussian beam", "w must be nonzero")
	}
	if cfg.zR != nil && *cfg.zR == 0 {
		return GaussianBeam{}, invalid("gaussian beam", "zR must be nonzero")
	}

	n := cfg.n
	sign := normSign(cfg.sign)

	var qr complex128
	var err error
	switch {
	case cfg.q != nil:
		qr = *cfg.q / complex(n, 0)
	case cfg.r != nil && cfg.w != nil:
		qr = QFromRW(*cfg.r, *cfg.w, cfg.wavelength, n)
	case cfg.z != nil && cfg.zR != nil:
		qr = QFromZZR(*cfg.z, *cfg.zR, n)
	case cfg.r != nil && cfg.z != nil:
		qr, err = QFromRZ(*cfg.r, *cfg.z, n)
	case cfg.r != nil && cfg.zR != nil:
		qr, err = QFromRZR(*cfg.r, *cfg.zR, n, sign)
	case cfg.w != nil && cfg.z != nil:
		qr, err = QFromWZ(*cfg.w, *cfg.z, cfg.wavelength, n, sign)
	case cfg.w != nil && cfg.zR != nil:
		qr, err = QFromWZR(*cfg.w, *cfg.zR, cfg.wavelength, n, sign)
	default:
		return GaussianBeam{}, invalid("gaussian beam", "no valid configuration found")
	}
	if err != nil {
		return GaussianBeam{}, err
	}

	return GaussianBeam{
		Y:          1,
		U:          1 / (complex(n, 0) * qr),
		N:          n,
		Wavelength: cfg.wavelength,
	}, nil
}

func normSign(s int) float64 {
	if s >= 0 {
		return 1
	}
	return -1
}

// QFromRW returns the reduced q for radius R and size w.
func QFromRW(r, w, wavelength, n float64) complex128 {
	return 1 / complex(n/r, -wavelength/(math.Pi*w*w))
}

// QFromZZR returns the reduced q for position z and Rayleigh range zR.
func QFromZZR(z, zR, n float64) complex128 {
	return complex(z/n, zR/n)
}

// QFromRZ returns the reduced q for radius R and position z using R(z).
func QFromRZ(r, z, n float64) (complex128, error) {
	if z == 0 || math.IsInf(r, 1) {
		return 0, invalid("q from R, z", "cannot have z == 0 or R == infinity")
	}
	zR2 := (r - z) * z
	if zR2 <= 0 {
		return 0, degenerate("q from R, z", "must have |z| < |R|")
	}
	return complex(z/n, math.Sqrt(zR2)/n), nil
}

// QFromRZR returns the reduced q for radius R and Rayleigh range zR by
// solving z² - R·z + zR² = 0.
func QFromRZR(r, zR, n, sign float64) (complex128, error) {
	if math.IsInf(r, 0) {
		if sign < 0 {
			return 0, degenerate("q from R, zR", "far-field root is at infinity for a flat wavefront")
		}
		return complex(0, zR/n), nil
	}
	disc := r*r - 4*zR*zR
	if disc < 0 {
		return 0, degenerate("q from R, zR", "must have 2 * zR <= R")
	}
	z := (r - sign*math.Sqrt(disc)) / 2
	return complex(z/n, zR/n), nil
}

// QFromWZ returns the reduced q for size w and position z by solving
// zR² - n·π·w²/λ·zR + z² = 0.
func QFromWZ(w, z, wavelength, n, sign float64) (complex128, error) {
	b := -n * math.Pi * w * w / wavelength
	disc := b*b - 4*z*z
	if disc < 0 {
		return 0, degenerate("q from w, z", "must have |z| <= |n * π * w**2 / λ0|")
	}
	zR := (-b + sign*math.Sqrt(disc)) / 2
	if zR == 0 {
		return 0, degenerate("q from w, z", "Rayleigh range solves to zero")
	}
	return complex(z/n, zR/n), nil
}

// QFromWZR returns the reduced q for size w and Rayleigh range zR.
func QFromWZR(w, zR, wavelength, n, sign float64) (complex128, error) {
	rad := (n*math.Pi*w*w/wavelength - zR) * zR
	if rad < 0 {
		return 0, degenerate("q from w, zR", "must have zR <= n * π * w**2 / λ0")
	}
	z := sign * math.Sqrt(rad)
	return complex(z/n, zR/n), nil
}

// Q returns the physical beam parameter.
func (g GaussianBeam) Q() complex128 {
	return g.Y / g.U
}

// R returns the wavefront radius of curvature, +Inf for a flat wavefront.
func (g GaussianBeam) R() float64 {
	re := real(1 / g.Q())
	if re == 0 {
		return math.Inf(1)
	}
	return 1 / re
}

// W returns the 1/e² beam radius.
func (g GaussianBeam) W() float64 {
	im := imag(complex(g.N, 0) / g.Q())
	return math.Pow(-math.Pi/g.Wavelength*im, -0.5)
}

// Z returns the axial position relative to the waist.
func (g GaussianBeam) Z() float64 {
	return real(g.Q())
}

// ZR returns the Rayleigh range.
func (g GaussianBeam) ZR() float64 {
	return imag(g.Q())
}

// W0 returns the waist radius.
func (g GaussianBeam) W0() float64 {
	return math.Sqrt(g.Wavelength * g.ZR() / (g.N * math.Pi))
}

// Divergence returns the far-field half-angle.
func (g GaussianBeam) Divergence() float64 {
	return g.W0() / g.ZR()
}

// Equal reports whether all four attributes match exactly.
func (g GaussianBeam) Equal(other GaussianBeam) bool {
	return g.Y == other.Y && g.U == other.U && g.N == other.N && g.Wavelength == other.Wavelength
}

// Through replaces g with the beam leaving e.
func (g *GaussianBeam) Through(e Element) {
	*g = e.ApplyBeam(*g)
}

func (g GaussianBeam) String() string {
	q := g.Q() * 1e3
	return fmt.Sprintf("R & w: %g mm & %g mm\nz & zR: %g mm & %g mm\nw0 & θ: %g mm & %g mrad\nq: %g mm",
		g.R()*1e3, g.W()*1e3, g.Z()*1e3, g.ZR()*1e3, g.W0()*1e3, g.Divergence()*1e3, q)
}
