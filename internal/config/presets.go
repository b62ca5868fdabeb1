package config

import "sort"

func ptr(v float64) *float64 { return &v }

func fan(count int, hmin, hmax, umin, umax float64) RayConfig {
	return RayConfig{Count: count, Height: [2]float64{hmin, hmax}, Angle: [2]float64{umin, umax}}
}

// Presets holds classic systems grouped by family. All lengths are in metres.
var Presets = map[string]map[string]*Config{
	"relay": {
		"4f": {
			Name: "4f relay", Wavelength: DefaultWavelength, Samples: 40,
			Rays: fan(9, -5e-3, 5e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindTransfer, Label: "object", Length: 50e-3},
				{Kind: KindThinLens, Label: "L1", Focal: 50e-3},
				{Kind: KindTransfer, Label: "fourier", Length: 100e-3},
				{Kind: KindThinLens, Label: "L2", Focal: 50e-3},
				{Kind: KindTransfer, Label: "image", Length: 50e-3},
			},
		},
	},
	"telescope": {
		"keplerian": {
			Name: "Keplerian 4x", Wavelength: DefaultWavelength, Samples: 40,
			Rays: fan(9, -10e-3, 10e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindThinLens, Label: "objective", Focal: 100e-3},
				{Kind: KindTransfer, Label: "tube", Length: 125e-3},
				{Kind: KindThinLens, Label: "eyepiece", Focal: 25e-3},
				{Kind: KindTransfer, Label: "exit", Length: 50e-3},
			},
		},
		"galilean": {
			Name: "Galilean 4x", Wavelength: DefaultWavelength, Samples: 40,
			Rays: fan(9, -10e-3, 10e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindThinLens, Label: "objective", Focal: 100e-3},
				{Kind: KindTransfer, Label: "tube", Length: 75e-3},
				{Kind: KindThinLens, Label: "eyepiece", Focal: -25e-3},
				{Kind: KindTransfer, Label: "exit", Length: 50e-3},
			},
		},
		"cassegrain": {
			Name: "Cassegrain f/12", Wavelength: DefaultWavelength, Samples: 60,
			Rays: fan(9, -50e-3, 50e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindMirror, Label: "primary", Radius: -400e-3},
				{Kind: KindTransfer, Label: "spacing", Length: 150e-3},
				{Kind: KindMirror, Label: "secondary", Radius: 120e-3},
				{Kind: KindTransfer, Label: "focus", Length: 300e-3},
			},
		},
	},
	"focuser": {
		"singlet": {
			Name: "N-BK7 plano-convex f=100", Wavelength: DefaultWavelength, Samples: 50,
			Wavelengths: []float64{486.1e-9, 587.6e-9, 656.3e-9},
			Rays:        fan(11, -10e-3, 10e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindThickLens, Label: "lens", Radius: 51.5e-3, Length: 4e-3, Index: Glass("n-bk7")},
				{Kind: KindTransfer, Label: "focus", Length: 97e-3},
			},
		},
		"doublet": {
			Name: "achromat f=100", Wavelength: DefaultWavelength, Samples: 50,
			Wavelengths: []float64{486.1e-9, 587.6e-9, 656.3e-9},
			Rays:        fan(11, -10e-3, 10e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindRefraction, Label: "R1", Radius: 62.8e-3, To: Glass("n-bk7")},
				{Kind: KindTransfer, Label: "crown", Length: 4e-3, Index: Glass("n-bk7")},
				{Kind: KindRefraction, Label: "R2", Radius: -45.7e-3, From: Glass("n-bk7"), To: Glass("n-sf5")},
				{Kind: KindTransfer, Label: "flint", Length: 2.5e-3, Index: Glass("n-sf5")},
				{Kind: KindRefraction, Label: "R3", Radius: -128.2e-3, From: Glass("n-sf5")},
				{Kind: KindTransfer, Label: "focus", Length: 97.1e-3},
			},
		},
		"collimator": {
			Name: "point source collimator", Wavelength: DefaultWavelength, Samples: 40,
			Rays: fan(9, 0, 0, -0.05, 0.05),
			Elements: []ElementSpec{
				{Kind: KindTransfer, Label: "source", Length: 50e-3},
				{Kind: KindThinLens, Label: "lens", Focal: 50e-3},
				{Kind: KindTransfer, Label: "out", Length: 50e-3},
			},
		},
	},
	"microscope": {
		"infinity": {
			Name: "10x infinity objective", Wavelength: DefaultWavelength, Samples: 60,
			Rays: fan(7, 0, 0, -0.1, 0.1),
			Elements: []ElementSpec{
				{Kind: KindTransfer, Label: "working", Length: 20e-3},
				{Kind: KindThinLens, Label: "objective", Focal: 20e-3},
				{Kind: KindTransfer, Label: "infinity", Length: 100e-3},
				{Kind: KindThinLens, Label: "tube lens", Focal: 200e-3},
				{Kind: KindTransfer, Label: "image", Length: 200e-3},
			},
		},
	},
	"grin": {
		"quarter": {
			Name: "quarter-pitch GRIN rod", Wavelength: DefaultWavelength, Samples: 60,
			Rays: fan(9, -0.5e-3, 0.5e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindDuct, Label: "rod", Length: 5.236e-3, Index: N(1.6), Gradient: 1.44e5},
				{Kind: KindRefraction, Label: "exit", From: N(1.6)},
				{Kind: KindTransfer, Label: "air", Length: 5e-3},
			},
		},
	},
	"spectrometer": {
		"littrow": {
			Name: "1200 l/mm Littrow arm", Wavelength: 500e-9, Samples: 30,
			Wavelengths: []float64{495e-9, 500e-9, 505e-9},
			Rays:        fan(5, -2e-3, 2e-3, 0, 0),
			Elements: []ElementSpec{
				{Kind: KindMirror, Label: "collimator", Radius: -200e-3},
				{Kind: KindTransfer, Label: "arm", Length: 100e-3},
				{Kind: KindGrating, Label: "grating", Pitch: 1e-3 / 1200, AOIDeg: 17.45},
				{Kind: KindTransfer, Label: "return", Length: 100e-3},
				{Kind: KindMirror, Label: "camera", Radius: -200e-3},
				{Kind: KindTransfer, Label: "focus", Length: 100e-3},
			},
		},
	},
	"beam": {
		"focus": {
			Name: "1 mm beam through f=100", Wavelength: DefaultWavelength, Samples: 80,
			Rays: fan(5, -1e-3, 1e-3, 0, 0),
			Beam: &BeamConfig{W: ptr(1e-3), Z: ptr(0)},
			Elements: []ElementSpec{
				{Kind: KindTransfer, Label: "input", Length: 50e-3},
				{Kind: KindThinLens, Label: "lens", Focal: 100e-3},
				{Kind: KindTransfer, Label: "focus", Length: 150e-3},
			},
		},
		"expander": {
			Name: "4x Galilean expander", Wavelength: DefaultWavelength, Samples: 80,
			Rays: fan(5, -1e-3, 1e-3, 0, 0),
			Beam: &BeamConfig{W: ptr(0.5e-3), Z: ptr(0)},
			Elements: []ElementSpec{
				{Kind: KindThinLens, Label: "diverger", Focal: -25e-3},
				{Kind: KindTransfer, Label: "spacing", Length: 75e-3},
				{Kind: KindThinLens, Label: "collimator", Focal: 100e-3},
				{Kind: KindTransfer, Label: "output", Length: 500e-3},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[preset]
	if !ok {
		return nil
	}
	cp := *cfg
	cp.Elements = append([]ElementSpec(nil), cfg.Elements...)
	cp.Wavelengths = append([]float64(nil), cfg.Wavelengths...)
	return &cp
}

// ListPresets returns the preset names of a family in sorted order.
func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Families returns the preset families in sorted order.
func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
