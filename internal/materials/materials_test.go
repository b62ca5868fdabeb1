package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rel = 1e-6

func TestAir(t *testing.T) {
	assert.InEpsilon(t, 1.000274, Air(0.5, 20, StandardPressure), rel)
}

func TestGlasses(t *testing.T) {
	tests := []struct {
		name       string
		fn         IndexFunc
		wavelength float64
		temp       float64
		// airTemp converts the relative index back to absolute.
		airTemp float64
		want    float64
		delta   float64
	}{
		{"N-BK7", NBK7, 0.58756, 20, 20, 1.51680011, 1.51680011 * rel},
		{"N-BK7 heated", NBK7, 0.58756, 30, 30, 1.51683, 2e-5},
		{"N-SF5", NSF5, 0.5461, 20, 20, 1.67763, 1.67763 * rel},
		{"N-SF5 heated", NSF5, 0.5461, 30, 30, 1.67763 + 10*2e-6, 1.67783 * rel},
		{"FS7980", FS7980, 0.587725, 22, 22, 1.458461, 5e-6},
		{"FS7980 heated", FS7980, 0.587725, 32, 32, 1.458461 + 10*10.1e-6, 1.458562 * rel},
		{"ZnSe", ZnSe, 10.6, 20, 20, 2.4028, 1e-4},
		{"ZnSe heated", ZnSe, 10.6, 30, 30, 2.4028 + 10*61e-6, 1e-4},
		// Thin-film fits relative to air at 25 °C, reference data converted
		// with air at 20 °C. The fit is only good to about 1e-4.
		{"MgF2", MgF2, 0.5870740, 25, 20, 1.421977, 1e-4},
		{"TiO2", TiO2, 0.587, 25, 20, 2.146858, 5e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.wavelength, tt.temp, StandardPressure) * Air(tt.wavelength, tt.airTemp, StandardPressure)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestNOA61(t *testing.T) {
	assert.InDelta(t, 1.5594, NOA61(0.5896), 2.5e-4)
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"N-BK7", "nbk7", " BK7 ", "fs7980", "ZnSe", "air", "noa61"} {
		m, err := Lookup(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, m.Name)
	}

	_, err := Lookup("unobtainium")
	require.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestMaterialIndexUsesReferenceConditions(t *testing.T) {
	bk7, err := Lookup("n-bk7")
	require.NoError(t, err)
	assert.Equal(t, NBK7(0.55, 20, StandardPressure), bk7.Index(0.55))
	assert.Equal(t, NBK7(0.55, 40, 90000), bk7.IndexAt(0.55, 40, 90000))
	assert.Equal(t, bk7.IndexAt(0.55, 40, 90000), bk7.Func()(0.55, 40, 90000))

	silica, err := Lookup("fs7980")
	require.NoError(t, err)
	assert.Equal(t, 22.0, silica.ReferenceTemperature)

	glue, err := Lookup("noa61")
	require.NoError(t, err)
	assert.Equal(t, NOA61(0.6), glue.IndexAt(0.6, 80, 0))
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 8)
	assert.IsIncreasing(t, names)
	for _, n := range names {
		_, err := Lookup(n)
		assert.NoError(t, err, n)
	}
}

func TestInRange(t *testing.T) {
	bk7, err := Lookup("n-bk7")
	require.NoError(t, err)
	assert.True(t, bk7.InRange(0.5))
	assert.False(t, bk7.InRange(2.0))
	assert.False(t, bk7.InRange(0.3))

	air, err := Lookup("air")
	require.NoError(t, err)
	assert.True(t, air.InRange(10))
}

func TestDispersion(t *testing.T) {
	bk7, _ := Lookup("n-bk7")
	sf5, _ := Lookup("n-sf5")

	// Normal dispersion: index falls with wavelength.
	assert.Greater(t, bk7.Index(0.45), bk7.Index(0.65))
	assert.InDelta(t, 64.17, bk7.AbbeNumber(), 0.2)
	assert.Less(t, sf5.AbbeNumber(), bk7.AbbeNumber())
}
