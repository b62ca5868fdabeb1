package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/opticlab/internal/materials"
	"github.com/san-kum/opticlab/internal/paraxial"
)

const (
	DefaultWavelength = paraxial.DefaultWavelength
	DefaultSamples    = 50
	DefaultRayCount   = 11
	DefaultHeight     = 5e-3
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Element kinds understood by ElementSpec.
const (
	KindTransfer   = "transfer"
	KindThinLens   = "thin_lens"
	KindThickLens  = "thick_lens"
	KindRefraction = "refraction"
	KindMirror     = "mirror"
	KindDuct       = "duct"
	KindGrating    = "grating"
	KindABCD       = "abcd"
)

// Kinds lists the element kinds in documentation order.
var Kinds = []string{
	KindTransfer, KindThinLens, KindThickLens, KindRefraction,
	KindMirror, KindDuct, KindGrating, KindABCD,
}

// Config is a traceable optical system plus its launch conditions.
type Config struct {
	Name        string        `yaml:"name" toml:"name"`
	Wavelength  float64       `yaml:"wavelength" toml:"wavelength"`
	Wavelengths []float64     `yaml:"wavelengths,omitempty" toml:"wavelengths,omitempty"`
	Temperature *float64      `yaml:"temperature,omitempty" toml:"temperature,omitempty"`
	Medium      Index         `yaml:"medium,omitempty" toml:"medium,omitempty"`
	Samples     int           `yaml:"samples" toml:"samples"`
	Rays        RayConfig     `yaml:"rays" toml:"rays"`
	Beam        *BeamConfig   `yaml:"beam,omitempty" toml:"beam,omitempty"`
	Elements    []ElementSpec `yaml:"elements" toml:"elements"`
}

// RayConfig describes a fan of launch rays spanning [min, max] in height
// and angle.
type RayConfig struct {
	Count  int        `yaml:"count" toml:"count"`
	Height [2]float64 `yaml:"height,flow" toml:"height"`
	Angle  [2]float64 `yaml:"angle,flow" toml:"angle"`
}

// BeamConfig names one pair of Gaussian-beam parameters.
type BeamConfig struct {
	W    *float64 `yaml:"w,omitempty" toml:"w,omitempty"`
	R    *float64 `yaml:"r,omitempty" toml:"r,omitempty"`
	Z    *float64 `yaml:"z,omitempty" toml:"z,omitempty"`
	ZR   *float64 `yaml:"zr,omitempty" toml:"zr,omitempty"`
	Sign int      `yaml:"sign,omitempty" toml:"sign,omitempty"`
}

// ElementSpec is one prescription entry. Radii of zero mean flat.
type ElementSpec struct {
	Kind  string `yaml:"kind" toml:"kind"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty"`

	Length  float64 `yaml:"length,omitempty" toml:"length,omitempty"`
	Focal   float64 `yaml:"focal,omitempty" toml:"focal,omitempty"`
	Radius  float64 `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Radius2 float64 `yaml:"radius2,omitempty" toml:"radius2,omitempty"`
	Index   Index   `yaml:"index,omitempty" toml:"index,omitempty"`
	From    Index   `yaml:"from,omitempty" toml:"from,omitempty"`
	To      Index   `yaml:"to,omitempty" toml:"to,omitempty"`

	// Duct gradient: n(y) = index - gradient·y²/2.
	Gradient float64 `yaml:"gradient,omitempty" toml:"gradient,omitempty"`

	AOIDeg float64 `yaml:"aoi_deg,omitempty" toml:"aoi_deg,omitempty"`
	Plane  string  `yaml:"plane,omitempty" toml:"plane,omitempty"`

	Order float64 `yaml:"order,omitempty" toml:"order,omitempty"`
	Pitch float64 `yaml:"pitch,omitempty" toml:"pitch,omitempty"`
	Sign  int     `yaml:"sign,omitempty" toml:"sign,omitempty"`

	A *float64 `yaml:"a,omitempty" toml:"a,omitempty"`
	B *float64 `yaml:"b,omitempty" toml:"b,omitempty"`
	C *float64 `yaml:"c,omitempty" toml:"c,omitempty"`
	D *float64 `yaml:"d,omitempty" toml:"d,omitempty"`

	Decenter float64 `yaml:"decenter,omitempty" toml:"decenter,omitempty"`
	Tilt     float64 `yaml:"tilt,omitempty" toml:"tilt,omitempty"`
}

// Index is a refractive index given either as a number or as a material
// name resolved at the trace wavelength. The zero value is air at 1.0.
type Index struct {
	Value    float64
	Material string
}

// N returns a numeric index.
func N(v float64) Index { return Index{Value: v} }

// Glass returns a material index.
func Glass(name string) Index { return Index{Material: name} }

func (i Index) IsZero() bool { return i.Value == 0 && i.Material == "" }

func (i *Index) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("index: expected scalar at line %d", node.Line)
	}
	var v float64
	if err := node.Decode(&v); err == nil {
		*i = Index{Value: v}
		return nil
	}
	*i = Index{Material: node.Value}
	return nil
}

// UnmarshalText accepts the TOML form, where an index is always a string
// holding either a number or a material name.
func (i *Index) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*i = Index{Value: v}
		return nil
	}
	*i = Index{Material: s}
	return nil
}

func (i Index) MarshalYAML() (interface{}, error) {
	if i.Material != "" {
		return i.Material, nil
	}
	return i.Value, nil
}

func (i Index) String() string {
	if i.Material != "" {
		return i.Material
	}
	if i.Value == 0 {
		return "1"
	}
	return fmt.Sprintf("%g", i.Value)
}

// Conditions fixes the wavelength (m) and temperature (°C) at which
// material indices are evaluated. A nil temperature uses each material's
// reference temperature.
type Conditions struct {
	Wavelength  float64
	Temperature *float64
}

// Resolve returns the numeric index under c.
func (i Index) Resolve(c Conditions) (float64, error) {
	if i.Material == "" {
		if i.Value == 0 {
			return 1, nil
		}
		return i.Value, nil
	}
	m, err := materials.Lookup(i.Material)
	if err != nil {
		return 0, err
	}
	temp := m.ReferenceTemperature
	if c.Temperature != nil {
		temp = *c.Temperature
	}
	return m.IndexAt(c.Wavelength*1e6, temp, materials.StandardPressure), nil
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "singlet",
		Wavelength: DefaultWavelength,
		Samples:    DefaultSamples,
		Rays: RayConfig{
			Count:  DefaultRayCount,
			Height: [2]float64{-DefaultHeight, DefaultHeight},
		},
		Elements: []ElementSpec{
			{Kind: KindThinLens, Label: "lens", Focal: 100e-3},
			{Kind: KindTransfer, Label: "focus", Length: 100e-3},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Elements = nil
	if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unmarshal picks the decoder from the file extension. Anything other
// than .toml is read as YAML.
func unmarshal(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Conditions returns the evaluation conditions at wavelength (m).
func (c *Config) Conditions(wavelength float64) Conditions {
	return Conditions{Wavelength: wavelength, Temperature: c.Temperature}
}

// SweepWavelengths returns Wavelengths, or the single Wavelength when no
// sweep is configured.
func (c *Config) SweepWavelengths() []float64 {
	if len(c.Wavelengths) > 0 {
		return c.Wavelengths
	}
	return []float64{c.Wavelength}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks launch settings and every element without resolving
// material names.
func (c *Config) Validate() error {
	if c.Wavelength <= 0 {
		return invalid("wavelength must be positive, got %g", c.Wavelength)
	}
	for _, wl := range c.Wavelengths {
		if wl <= 0 {
			return invalid("sweep wavelength must be positive, got %g", wl)
		}
	}
	if c.Samples < 1 {
		return invalid("samples must be at least 1, got %d", c.Samples)
	}
	if c.Rays.Count < 0 {
		return invalid("ray count must not be negative, got %d", c.Rays.Count)
	}
	if len(c.Elements) == 0 {
		return invalid("no elements")
	}
	if c.Beam != nil {
		if _, err := c.Beam.Options(1, c.Wavelength); err != nil {
			return invalid("beam: %v", err)
		}
	}
	for i, e := range c.Elements {
		if err := e.validate(); err != nil {
			return fmt.Errorf("element %d (%s): %w", i, e.Kind, err)
		}
	}
	return nil
}

func (e ElementSpec) validate() error {
	switch e.Kind {
	case KindTransfer, KindDuct:
		if e.Length < 0 {
			return invalid("length must not be negative")
		}
		if e.Kind == KindDuct && e.Gradient <= 0 {
			return invalid("duct gradient must be positive")
		}
	case KindThinLens:
		if e.Focal == 0 {
			return invalid("focal length must be nonzero")
		}
	case KindThickLens:
		if e.Length < 0 {
			return invalid("thickness must not be negative")
		}
		if e.Index.IsZero() {
			return invalid("thick lens needs a glass index")
		}
	case KindRefraction, KindMirror:
	case KindGrating:
		if e.Pitch <= 0 {
			return invalid("grating pitch must be positive")
		}
	case KindABCD:
		if e.A == nil && e.B == nil && e.C == nil && e.D == nil {
			return invalid("abcd needs at least one coefficient")
		}
	default:
		return invalid("unknown kind %q (want one of %s)", e.Kind, strings.Join(Kinds, ", "))
	}
	if e.Plane != "" {
		if _, err := paraxial.ParsePlane(e.Plane); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the beam pair into constructor options for a beam
// starting in index n.
func (b *BeamConfig) Options(n, wavelength float64) ([]paraxial.BeamOption, error) {
	opts := []paraxial.BeamOption{paraxial.WithIndex(n), paraxial.WithWavelength(wavelength)}
	set := 0
	if b.W != nil {
		opts = append(opts, paraxial.WithW(*b.W))
		set++
	}
	if b.R != nil {
		opts = append(opts, paraxial.WithR(*b.R))
		set++
	}
	if b.Z != nil {
		opts = append(opts, paraxial.WithZ(*b.Z))
		set++
	}
	if b.ZR != nil {
		opts = append(opts, paraxial.WithZR(*b.ZR))
		set++
	}
	if set != 2 {
		return nil, fmt.Errorf("need exactly two of w, r, z, zr; got %d", set)
	}
	if b.Sign != 0 {
		opts = append(opts, paraxial.WithSign(b.Sign))
	}
	return opts, nil
}

// LaunchBeam builds the launch beam at wavelength, or returns nil when none is
// configured.
func (c *Config) LaunchBeam(wavelength float64) (*paraxial.GaussianBeam, error) {
	if c.Beam == nil {
		return nil, nil
	}
	n, err := c.Medium.Resolve(c.Conditions(wavelength))
	if err != nil {
		return nil, err
	}
	opts, err := c.Beam.Options(n, wavelength)
	if err != nil {
		return nil, err
	}
	g, err := paraxial.NewGaussianBeam(opts...)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func radius(r float64) float64 {
	if r == 0 {
		return math.Inf(1)
	}
	return r
}

func (e ElementSpec) plane() (paraxial.Plane, error) {
	if e.Plane == "" {
		return paraxial.Tangential, nil
	}
	return paraxial.ParsePlane(e.Plane)
}

func (e ElementSpec) misalign() []paraxial.ElementOption {
	var opts []paraxial.ElementOption
	if e.Decenter != 0 {
		opts = append(opts, paraxial.WithDecenter(e.Decenter))
	}
	if e.Tilt != 0 {
		opts = append(opts, paraxial.WithTilt(e.Tilt), paraxial.WithLength(e.Length))
	}
	return opts
}

// Build resolves indices under c and returns the element.
func (e ElementSpec) Build(c Conditions) (paraxial.Element, error) {
	return e.build(c, e.Length)
}

// Sliceable reports whether the element can be split along its length,
// so a trace may sample inside it.
func (e ElementSpec) Sliceable() bool {
	return (e.Kind == KindTransfer || e.Kind == KindDuct) && e.Decenter == 0 && e.Tilt == 0
}

// Slice returns the first dz of a sliceable element.
func (e ElementSpec) Slice(c Conditions, dz float64) (paraxial.Element, error) {
	if !e.Sliceable() {
		return paraxial.Element{}, invalid("%s cannot be sliced", e.Kind)
	}
	return e.build(c, dz)
}

func (e ElementSpec) build(c Conditions, length float64) (paraxial.Element, error) {
	opts := e.misalign()
	aoi := e.AOIDeg * math.Pi / 180

	switch e.Kind {
	case KindTransfer:
		n, err := e.Index.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		return paraxial.Transfer(length, n, opts...), nil

	case KindThinLens:
		return paraxial.ThinLens(e.Focal, opts...), nil

	case KindThickLens:
		glass, err := e.Index.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		ambient, err := e.From.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		return paraxial.ThickLens(radius(e.Radius), radius(e.Radius2), length, glass, ambient, opts...), nil

	case KindRefraction:
		n1, err := e.From.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		n2, err := e.To.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		plane, err := e.plane()
		if err != nil {
			return paraxial.Element{}, err
		}
		return paraxial.Refraction(radius(e.Radius), n1, n2, aoi, plane, opts...)

	case KindMirror:
		plane, err := e.plane()
		if err != nil {
			return paraxial.Element{}, err
		}
		return paraxial.Mirror(radius(e.Radius), aoi, plane, opts...)

	case KindDuct:
		n0, err := e.Index.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		return paraxial.Duct(length, n0, e.Gradient, opts...), nil

	case KindGrating:
		plane, err := e.plane()
		if err != nil {
			return paraxial.Element{}, err
		}
		g := paraxial.DefaultGrating()
		g.R = radius(e.Radius)
		g.D = e.Pitch
		g.Wavelength = c.Wavelength
		g.AOI = aoi
		g.Plane = plane
		if e.Order != 0 {
			g.Order = e.Order
		}
		if e.Sign != 0 {
			g.Sign = e.Sign
		}
		return paraxial.Grating(g, opts...)

	case KindABCD:
		n1, err := e.From.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		n2, err := e.To.Resolve(c)
		if err != nil {
			return paraxial.Element{}, err
		}
		opts = append(opts, paraxial.WithIndices(n1, n2))
		for _, p := range []struct {
			v   *float64
			opt func(float64) paraxial.ElementOption
		}{{e.A, paraxial.WithA}, {e.B, paraxial.WithB}, {e.C, paraxial.WithC}, {e.D, paraxial.WithD}} {
			if p.v != nil {
				opts = append(opts, p.opt(*p.v))
			}
		}
		return paraxial.NewElement(opts...), nil

	default:
		return paraxial.Element{}, invalid("unknown kind %q", e.Kind)
	}
}

// System composes the whole prescription at wavelength.
func (c *Config) System(wavelength float64) (paraxial.Element, error) {
	cond := c.Conditions(wavelength)
	elems := make([]paraxial.Element, 0, len(c.Elements))
	for i, e := range c.Elements {
		el, err := e.Build(cond)
		if err != nil {
			return paraxial.Element{}, fmt.Errorf("element %d (%s): %w", i, e.Kind, err)
		}
		elems = append(elems, el)
	}
	return paraxial.Sequence(elems...), nil
}
