// Package materials computes refractive indices of common optical media
// from published dispersion fits. Wavelengths are vacuum wavelengths in
// micrometres, temperatures in °C and pressures in Pa. Solid media are
// reported relative to the surrounding air unless noted.
package materials

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// StandardPressure is one atmosphere (Pa).
const StandardPressure = 101325.0

// ErrUnknownMaterial is returned by Lookup for names not in the catalog.
var ErrUnknownMaterial = errors.New("materials: unknown material")

// IndexFunc returns the index at a wavelength (µm), temperature (°C) and
// air pressure (Pa).
type IndexFunc func(wavelength, temperature, pressure float64) float64

// Material is a named index model.
type Material struct {
	Name                 string
	Description          string
	ReferenceTemperature float64
	// MinWavelength and MaxWavelength bound the fit (µm); zero means unbounded.
	MinWavelength float64
	MaxWavelength float64

	index IndexFunc
}

// Index returns the index at the reference temperature and one atmosphere.
func (m Material) Index(wavelength float64) float64 {
	return m.index(wavelength, m.ReferenceTemperature, StandardPressure)
}

// IndexAt returns the index at the given conditions.
func (m Material) IndexAt(wavelength, temperature, pressure float64) float64 {
	return m.index(wavelength, temperature, pressure)
}

// Func exposes the model as an IndexFunc.
func (m Material) Func() IndexFunc {
	return m.index
}

// InRange reports whether wavelength lies within the fitted range.
func (m Material) InRange(wavelength float64) bool {
	if m.MinWavelength > 0 && wavelength < m.MinWavelength {
		return false
	}
	if m.MaxWavelength > 0 && wavelength > m.MaxWavelength {
		return false
	}
	return true
}

var catalog = map[string]Material{
	"air": {
		Name: "air", Description: "Edlén equation",
		ReferenceTemperature: 20, index: Air,
	},
	"n-bk7": {
		Name: "N-BK7", Description: "Schott N-BK7 borosilicate crown",
		ReferenceTemperature: 20, MinWavelength: 0.365, MaxWavelength: 1.06, index: NBK7,
	},
	"n-sf5": {
		Name: "N-SF5", Description: "Schott N-SF5 dense flint",
		ReferenceTemperature: 20, MinWavelength: 0.405, MaxWavelength: 2.326, index: NSF5,
	},
	"fs7980": {
		Name: "FS7980", Description: "Corning 7980 fused silica",
		ReferenceTemperature: 22, MinWavelength: 0.185, MaxWavelength: 1.129, index: FS7980,
	},
	"noa61": {
		Name: "NOA61", Description: "Norland optical adhesive 61, absolute at 25 °C",
		ReferenceTemperature: 25, index: func(wl, _, _ float64) float64 { return NOA61(wl) },
	},
	"znse": {
		Name: "ZnSe", Description: "zinc selenide",
		ReferenceTemperature: 20, index: ZnSe,
	},
	"mgf2": {
		Name: "MgF2", Description: "magnesium fluoride",
		ReferenceTemperature: 25, index: MgF2,
	},
	"tio2": {
		Name: "TiO2", Description: "titanium dioxide",
		ReferenceTemperature: 25, index: TiO2,
	},
}

var aliases = map[string]string{
	"nbk7":  "n-bk7",
	"bk7":   "n-bk7",
	"nsf5":  "n-sf5",
	"sf5":   "n-sf5",
	"7980":  "fs7980",
	"fused": "fs7980",
}

// Lookup returns the named material. Names are case-insensitive.
func Lookup(name string) (Material, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	m, ok := catalog[key]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names returns the catalog keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for k := range catalog {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Air returns the index of air (Edlén).
func Air(wavelength, temperature, pressure float64) float64 {
	s2 := 1 / (wavelength * wavelength)
	ns := (8342.54 + 2406147/(130-s2) + 15998/(38.9-s2)) * 1e-8
	return 1 + pressure*ns/96095.43*
		(1+1e-8*(0.601-9.72e-3*temperature)*pressure)/
		(1+3.661e-3*temperature)
}

// sellmeier evaluates the three-term Sellmeier equation.
func sellmeier(wavelength float64, b, c [3]float64) float64 {
	l2 := wavelength * wavelength
	n2 := 1.0
	for i := range b {
		n2 += b[i] * l2 / (l2 - c[i])
	}
	return math.Sqrt(n2)
}

// schottThermal is the Schott absolute dn/dT model around 20 °C.
type schottThermal struct {
	d0, d1, d2 float64
	e0, e1     float64
	lambdaTK   float64
}

func (s schottThermal) delta(n, wavelength, temperature float64) float64 {
	dt := temperature - 20
	l2 := wavelength * wavelength
	return (n*n - 1) / (2 * n) *
		(s.d0*dt + s.d1*dt*dt + s.d2*dt*dt*dt +
			(s.e0*dt+s.e1*dt*dt)/(l2-s.lambdaTK*s.lambdaTK))
}

var (
	nbk7B = [3]float64{1.03961212, 0.231792344, 1.01046945}
	nbk7C = [3]float64{0.00600069867, 0.0200179144, 103.560653}
	nbk7T = schottThermal{d0: 1.86e-6, d1: 1.31e-8, d2: -1.37e-11, e0: 4.34e-7, e1: 6.27e-10, lambdaTK: 0.17}

	nsf5B = [3]float64{1.52481889, 0.187085527, 1.427290150}
	nsf5C = [3]float64{0.01125475600, 0.0588995392, 129.1416750}
	nsf5T = schottThermal{d0: -2.51e-07, d1: 1.07e-08, d2: -2.40e-11, e0: 7.85e-07, e1: 1.15e-09, lambdaTK: 0.278}
)

// NBK7 returns the index of Schott N-BK7 relative to air.
func NBK7(wavelength, temperature, pressure float64) float64 {
	n := sellmeier(wavelength, nbk7B, nbk7C)
	n += nbk7T.delta(n, wavelength, temperature)
	return n / Air(wavelength, temperature, pressure)
}

// NSF5 returns the index of Schott N-SF5 relative to air.
func NSF5(wavelength, temperature, pressure float64) float64 {
	n := sellmeier(wavelength, nsf5B, nsf5C)
	n += nsf5T.delta(n, wavelength, temperature)
	return n / Air(wavelength, temperature, pressure)
}

// FS7980 returns the index of Corning 7980 fused silica relative to air.
func FS7980(wavelength, temperature, pressure float64) float64 {
	l2 := wavelength * wavelength
	a := [...]float64{
		2.104025406e00, -1.456000330e-04, -9.049135390e-03, 8.801830992e-03,
		8.435237228e-05, 1.681656789e-06, -1.675425449e-08, 8.326602461e-10,
	}
	n := math.Sqrt(a[0] + a[1]*l2*l2 + a[2]*l2 +
		a[3]/l2 + a[4]/math.Pow(l2, 2) + a[5]/math.Pow(l2, 3) +
		a[6]/math.Pow(l2, 4) + a[7]/math.Pow(l2, 5))

	dt := temperature - 22
	n += (9.390590 + 0.235290/l2 - 1.318560e-03/(l2*l2) + 3.028870e-04/math.Pow(l2, 3)) * dt * 1e-6
	return n / Air(wavelength, temperature, pressure)
}

// NOA61 returns the absolute index of Norland 61 at 25 °C. The adhesive
// sits between glass surfaces, so no air correction is applied.
func NOA61(wavelength float64) float64 {
	nm := wavelength * 1e3
	return 1.5375 + 8290.45/(nm*nm) - 2.11046e8/(nm*nm*nm*nm)
}

// ZnSe returns the index of zinc selenide relative to air.
func ZnSe(wavelength, temperature, pressure float64) float64 {
	const (
		a = 2.4111569588609116
		b = 0.59479976285565850
		c = -0.28953183849065445
		d = 1204.4848710547462
		e = 45.910794001839250
		// dn/dT at 10.6 µm; larger at shorter wavelengths.
		dndT = 61e-6
	)
	l2 := wavelength * wavelength
	n := a + b*l2/(l2-c*c) + d/(l2-e*e)
	n += dndT * (temperature - 20)
	return n / Air(wavelength, temperature, pressure)
}

// MgF2 returns the index of magnesium fluoride relative to air.
func MgF2(wavelength, temperature, pressure float64) float64 {
	const (
		a = 1.4177428299172710e00
		b = 1.1505948761303543e-02
		c = -3.4962526545629879e-01
		d = -8.0656421284475994e-03
		e = 9.5656756857168387e-02
	)
	n := a + b/(c-wavelength) + d/(e-wavelength)
	return n / Air(wavelength, temperature, pressure)
}

// TiO2 returns the index of titanium dioxide relative to air.
func TiO2(wavelength, temperature, pressure float64) float64 {
	const (
		a = 1.9226445269428725e00
		b = 2.0802606609567842e-02
		c = 1.2005327946672779e-01
		d = -3.0426606351792251e-01
	)
	l2 := wavelength * wavelength
	n := a + b/l2 + c*l2/(l2-d*d)
	return n / Air(wavelength, temperature, pressure)
}

// AbbeNumber returns (nd - 1)/(nF - nC) at the Fraunhofer d, F and C lines.
func (m Material) AbbeNumber() float64 {
	nd := m.Index(0.5875618)
	nF := m.Index(0.4861327)
	nC := m.Index(0.6562725)
	return (nd - 1) / (nF - nC)
}
