package paraxial

import (
	"fmt"
	"math"
)

// Element is an augmented ray-transfer matrix
//
//	[A B E]
//	[C D F]
//	[0 0 1]
//
// acting on (y, n·u, 1). N1 and N2 are the indices before and after.
type Element struct {
	A, B, C, D float64
	E, F       float64
	N1, N2     float64
}

type elementConfig struct {
	a, b, c, d float64
	n1, n2     float64
	decenter   float64
	tilt       float64
	length     float64
	e, f       *float64
}

// ElementOption configures NewElement and the named surfaces.
type ElementOption func(*elementConfig)

// WithA sets the A coefficient.
func WithA(a float64) ElementOption { return func(c *elementConfig) { c.a = a } }

// WithB sets the B coefficient.
func WithB(b float64) ElementOption { return func(c *elementConfig) { c.b = b } }

// WithC sets the C coefficient.
func WithC(v float64) ElementOption { return func(c *elementConfig) { c.c = v } }

// WithD sets the D coefficient.
func WithD(d float64) ElementOption { return func(c *elementConfig) { c.d = d } }

// WithIndices sets the indices before and after the element.
func WithIndices(n1, n2 float64) ElementOption {
	return func(c *elementConfig) {
		c.n1 = n1
		c.n2 = n2
	}
}

// WithDecenter sets a transverse displacement of the element.
func WithDecenter(d float64) ElementOption { return func(c *elementConfig) { c.decenter = d } }

// WithTilt sets an angular misalignment of the element (rad).
func WithTilt(t float64) ElementOption { return func(c *elementConfig) { c.tilt = t } }

// WithLength sets the physical length used by the tilt term.
func WithLength(l float64) ElementOption { return func(c *elementConfig) { c.length = l } }

// WithE sets E explicitly, bypassing the misalignment formula.
func WithE(e float64) ElementOption { return func(c *elementConfig) { c.e = &e } }

// WithF sets F explicitly, bypassing the misalignment formula.
func WithF(f float64) ElementOption { return func(c *elementConfig) { c.f = &f } }

func defaultElementConfig() elementConfig {
	return elementConfig{a: 1, d: 1, n1: 1, n2: 1}
}

// NewElement builds a general element. Unset coefficients default to the
// identity in air.
func NewElement(opts ...ElementOption) Element {
	cfg := defaultElementConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.build()
}

// newSurface builds an element whose coefficients are fixed by a named
// surface; opts may still supply indices and misalignments.
func newSurface(a, b, c, d, n1, n2 float64, opts []ElementOption) Element {
	cfg := defaultElementConfig()
	cfg.n1, cfg.n2 = n1, n2
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.a, cfg.b, cfg.c, cfg.d = a, b, c, d
	return cfg.build()
}

func (cfg elementConfig) build() Element {
	el := Element{A: cfg.a, B: cfg.b, C: cfg.c, D: cfg.d, N1: cfg.n1, N2: cfg.n2}
	e, f := el.misalignment(cfg.decenter, cfg.tilt, cfg.length)
	if cfg.e != nil {
		e = *cfg.e
	}
	if cfg.f != nil {
		f = *cfg.f
	}
	el.E, el.F = e, f
	return el
}

// Identity returns the identity element in air.
func Identity() Element {
	return Element{A: 1, D: 1, N1: 1, N2: 1}
}

func (el Element) misalignment(decenter, tilt, length float64) (e, f float64) {
	// Zero misalignment must not turn an infinite coefficient into NaN.
	if decenter != 0 {
		e += (1 - el.A) * decenter
		f += -el.C * decenter
	}
	if tilt != 0 {
		e += (length - el.N1*el.B) * tilt
		f += (el.N2 - el.N1*el.D) * tilt
	}
	return e, f
}

// AddMisalignments recomputes E and F from the current coefficients,
// replacing any previous offsets.
func (el *Element) AddMisalignments(decenter, tilt, length float64) {
	el.E, el.F = el.misalignment(decenter, tilt, length)
}

// Compose returns el∘inner: a ray passes through inner, then el.
func (el Element) Compose(inner Element) Element {
	return Element{
		A:  el.A*inner.A + el.B*inner.C,
		B:  el.A*inner.B + el.B*inner.D,
		C:  el.C*inner.A + el.D*inner.C,
		D:  el.C*inner.B + el.D*inner.D,
		E:  el.A*inner.E + el.B*inner.F + el.E,
		F:  el.C*inner.E + el.D*inner.F + el.F,
		N1: inner.N1,
		N2: el.N2,
	}
}

// Compose returns outer∘inner.
func Compose(outer, inner Element) Element {
	return outer.Compose(inner)
}

// Sequence composes elements in the order light meets them.
// Sequence() is the identity.
func Sequence(elems ...Element) Element {
	if len(elems) == 0 {
		return Identity()
	}
	sys := elems[0]
	for _, el := range elems[1:] {
		sys = el.Compose(sys)
	}
	return sys
}

// Then returns the system formed by el followed by next.
func (el Element) Then(next Element) Element {
	return next.Compose(el)
}

// Apply returns the ray leaving el. The input is not modified.
func (el Element) Apply(r Ray) Ray {
	nu := r.N * r.U
	return Ray{
		Y:          el.A*r.Y + el.B*nu + el.E,
		U:          (el.C*r.Y + el.D*nu + el.F) / el.N2,
		N:          el.N2,
		Wavelength: r.Wavelength,
	}
}

// ApplyBundle returns the bundle leaving el in freshly allocated slices.
// Large bundles are evaluated in parallel chunks. A hand-built bundle with
// unequal Y and U is truncated to the shorter of the two.
func (el Element) ApplyBundle(b RayBundle) RayBundle {
	n := min(len(b.Y), len(b.U))
	out := RayBundle{
		Y:          make([]float64, n),
		U:          make([]float64, n),
		N:          el.N2,
		Wavelength: b.Wavelength,
	}
	ParallelFor(n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			nu := b.N * b.U[i]
			out.Y[i] = el.A*b.Y[i] + el.B*nu + el.E
			out.U[i] = (el.C*b.Y[i] + el.D*nu + el.F) / el.N2
		}
	})
	return out
}

// ApplyBeam returns the beam leaving el.
func (el Element) ApplyBeam(g GaussianBeam) GaussianBeam {
	nu := complex(g.N, 0) * g.U
	return GaussianBeam{
		Y:          complex(el.A, 0)*g.Y + complex(el.B, 0)*nu + complex(el.E, 0),
		U:          (complex(el.C, 0)*g.Y + complex(el.D, 0)*nu + complex(el.F, 0)) / complex(el.N2, 0),
		N:          el.N2,
		Wavelength: g.Wavelength,
	}
}

// Equal compares the six coefficients. Indices are ignored; see StrictEqual.
func (el Element) Equal(other Element) bool {
	return el.A == other.A && el.B == other.B && el.C == other.C &&
		el.D == other.D && el.E == other.E && el.F == other.F
}

// StrictEqual compares the six coefficients and both indices.
func (el Element) StrictEqual(other Element) bool {
	return el.Equal(other) && el.N1 == other.N1 && el.N2 == other.N2
}

// ApproxEqual compares the six coefficients within tol, relative to the
// larger magnitude when that exceeds one.
func (el Element) ApproxEqual(other Element, tol float64) bool {
	pairs := [6][2]float64{
		{el.A, other.A}, {el.B, other.B}, {el.C, other.C},
		{el.D, other.D}, {el.E, other.E}, {el.F, other.F},
	}
	for _, p := range pairs {
		if !approx(p[0], p[1], tol) {
			return false
		}
	}
	return true
}

func approx(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}

// Determinant returns A·D - B·C, which is one for any lossless system
// since the matrix acts on reduced angles.
func (el Element) Determinant() float64 {
	return el.A*el.D - el.B*el.C
}

func (el Element) String() string {
	return fmt.Sprintf("[[%g %g %g]\n [%g %g %g]\n [0 0 1]]", el.A, el.B, el.E, el.C, el.D, el.F)
}
