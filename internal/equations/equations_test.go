package equations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/opticlab/internal/materials"
)

const rel = 1e-6

func TestRayleighResolution(t *testing.T) {
	assert.InEpsilon(t, 1.22*0.532*10, RayleighResolution(0.532, 10), rel)
}

func TestDiffractionAngle(t *testing.T) {
	tests := []struct {
		name    string
		angleIn float64
		order   float64
		want    float64
	}{
		{"normal", 0, -1, -32.140687},
		{"angled", 10, -1, -20.99901},
		{"second order", 10, -2, -62.91749},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InEpsilon(t, tt.want, DiffractionAngle(0.532, 1, tt.angleIn, tt.order, 1), rel)
		})
	}

	// The two sign conventions mirror the incidence angle.
	assert.InDelta(t, DiffractionAngle(0.532, 1, -10, -1, 1), DiffractionAngle(0.532, 1, 10, -1, -1), 1e-12)
}

func TestFiberCoupling(t *testing.T) {
	assert.InDelta(t, 1, FiberCouplingEfficiency(1.55, 5, 5, Offsets{}, 1), 1e-12)

	for name, off := range map[string]Offsets{
		"transverse":   {Transverse: 1e3},
		"longitudinal": {Longitudinal: 1e12},
		"angular":      {Angular: 90},
	} {
		assert.InDelta(t, 0, FiberCouplingEfficiency(1.55, 5, 5, off, 1), 1e-12, name)
	}

	mismatched := FiberCouplingEfficiency(1.55, 5, 6, Offsets{}, 1)
	assert.Less(t, mismatched, 1.0)
	assert.Greater(t, mismatched, 0.9)
}

func TestCriticalAngle(t *testing.T) {
	assert.InEpsilon(t, 30, CriticalAngle(2), rel)
}

func TestNAFromIndices(t *testing.T) {
	core := materials.FS7980(0.532, 22, materials.StandardPressure)
	cladding := math.Sqrt(core*core - 0.1*0.1)
	assert.InEpsilon(t, 0.1, NAFromIndices(core, cladding), rel)
}

func TestBestFitWaist(t *testing.T) {
	// SMF-28-like fiber near 1.55 µm has a mode field radius of about 5.2 µm.
	w := BestFitWaist(1.4682, 1.4629, 4.1, 1.55)
	assert.InDelta(t, 5.2, w, 0.3)
}

func TestFresnelReflection(t *testing.T) {
	n := 1.5
	rho, err := FresnelReflection(1, n, 0, P)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.04, rho*rho, rel)

	th1 := radians(10)
	th2 := math.Asin(math.Sin(th1) / n)

	rho, err = FresnelReflection(1, n, 10, P)
	require.NoError(t, err)
	nt1, nt2 := 1/math.Cos(th1), n/math.Cos(th2)
	explicit := (nt1 - nt2) / (nt1 + nt2)
	assert.InEpsilon(t, explicit*explicit, rho*rho, rel)

	rho, err = FresnelReflection(1, n, 10, S)
	require.NoError(t, err)
	nt1, nt2 = math.Cos(th1), n*math.Cos(th2)
	explicit = (nt1 - nt2) / (nt1 + nt2)
	assert.InEpsilon(t, explicit*explicit, rho*rho, rel)

	// Brewster's angle extinguishes P.
	rho, err = FresnelReflection(1, n, degrees(math.Atan(n)), P)
	require.NoError(t, err)
	assert.InDelta(t, 0, rho, 1e-12)

	_, err = FresnelReflection(1, n, 0, Polarization(9))
	assert.ErrorIs(t, err, ErrUnknownPolarization)
}

func TestParsePolarization(t *testing.T) {
	p, err := ParsePolarization("S")
	require.NoError(t, err)
	assert.Equal(t, S, p)

	p, err = ParsePolarization("p")
	require.NoError(t, err)
	assert.Equal(t, P, p)

	_, err = ParsePolarization("circular")
	assert.ErrorIs(t, err, ErrUnknownPolarization)
}

func TestAchromaticDoublet(t *testing.T) {
	lc, ld, lf := 0.6563, 0.5893, 0.4861
	idx := func(fn materials.IndexFunc, wl float64) float64 {
		return fn(wl, 20, materials.StandardPressure)
	}
	abbe := func(fn materials.IndexFunc) float64 {
		return (idx(fn, ld) - 1) / (idx(fn, lf) - idx(fn, lc))
	}

	na, nb := idx(materials.NBK7, ld), idx(materials.NSF5, ld)
	va, vb := abbe(materials.NBK7), abbe(materials.NSF5)

	sols := AchromaticDoublet(100e-3, na, va, nb, vb)
	require.Len(t, sols, 2)
	// The cemented interface curvatures agree.
	assert.InDelta(t, sols[0].C2, sols[0].C3, 0.1)

	// Each solution keeps the element powers summing to 1/f.
	for _, s := range sols {
		power := (na-1)*(s.C1-s.C2) + (nb-1)*(s.C3-s.C4)
		assert.InEpsilon(t, 1/100e-3, power, 1e-9)
	}
}
