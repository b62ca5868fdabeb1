package config

import (
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/opticlab/internal/materials"
	"github.com/san-kum/opticlab/internal/paraxial"
)

var _ = Describe("DefaultConfig", func() {
	It("is a valid thin-lens focuser", func() {
		cfg := DefaultConfig()
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Wavelength).To(Equal(paraxial.DefaultWavelength))
		Expect(cfg.Samples).To(BeNumerically(">", 0))
		Expect(cfg.Elements).To(HaveLen(2))
	})

	It("focuses a collimated ray onto the axis", func() {
		sys, err := DefaultConfig().System(DefaultWavelength)
		Expect(err).NotTo(HaveOccurred())
		out := sys.Apply(paraxial.NewRay(1e-3, 0))
		Expect(out.Y).To(BeNumerically("~", 0, 1e-12))
	})
})

var _ = Describe("Load and Save", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("round-trips a preset", func() {
		path := filepath.Join(dir, "doublet.yaml")
		orig := GetPreset("focuser", "doublet")
		Expect(Save(path, orig)).To(Succeed())

		loaded, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Elements).To(Equal(orig.Elements))
		Expect(loaded.Wavelengths).To(Equal(orig.Wavelengths))
	})

	It("reads numeric and material indices", func() {
		path := filepath.Join(dir, "sys.yaml")
		doc := `
name: glass block
wavelength: 5.876e-7
samples: 10
rays: {count: 3, height: [-1e-3, 1e-3], angle: [0, 0]}
elements:
  - {kind: refraction, to: N-BK7}
  - {kind: transfer, length: 0.01, index: N-BK7}
  - {kind: refraction, from: 1.5168, to: 1}
`
		Expect(os.WriteFile(path, []byte(doc), 0644)).To(Succeed())

		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Elements[0].To).To(Equal(Glass("N-BK7")))
		Expect(cfg.Elements[2].From).To(Equal(N(1.5168)))
		Expect(cfg.Elements[2].To).To(Equal(N(1)))
		Expect(cfg.Rays.Count).To(Equal(3))
	})

	It("reads TOML prescriptions by extension", func() {
		path := filepath.Join(dir, "sys.toml")
		doc := `
name = "glass block"
wavelength = 5.876e-7
samples = 10

[rays]
count = 3
height = [-1e-3, 1e-3]
angle = [0.0, 0.0]

[[elements]]
kind = "refraction"
to = "N-BK7"

[[elements]]
kind = "transfer"
length = 0.01
index = "N-BK7"

[[elements]]
kind = "refraction"
from = "1.5168"
to = "1"
`
		Expect(os.WriteFile(path, []byte(doc), 0644)).To(Succeed())

		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Name).To(Equal("glass block"))
		Expect(cfg.Elements).To(HaveLen(3))
		Expect(cfg.Elements[1].Index).To(Equal(Glass("N-BK7")))
		Expect(cfg.Elements[2].From).To(Equal(N(1.5168)))
		Expect(cfg.Rays.Height).To(Equal([2]float64{-1e-3, 1e-3}))
	})

	It("rejects invalid files", func() {
		path := filepath.Join(dir, "bad.yaml")
		Expect(os.WriteFile(path, []byte("wavelength: -1\nelements: [{kind: transfer}]\n"), 0644)).To(Succeed())
		_, err := Load(path)
		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	It("reports missing files", func() {
		_, err := Load(filepath.Join(dir, "missing.yaml"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})

var _ = Describe("Index", func() {
	It("marshals numbers and names as scalars", func() {
		out, err := yaml.Marshal(struct {
			A Index `yaml:"a"`
			B Index `yaml:"b"`
			C Index `yaml:"c,omitempty"`
		}{A: N(1.5), B: Glass("znse")})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("a: 1.5\nb: znse\n"))
	})

	It("resolves the zero value to air", func() {
		n, err := Index{}.Resolve(Conditions{Wavelength: 500e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1.0))
	})

	It("evaluates materials at the trace wavelength", func() {
		n, err := Glass("n-bk7").Resolve(Conditions{Wavelength: 587.56e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeNumerically("~", materials.NBK7(0.58756, 20, materials.StandardPressure), 1e-12))

		hot := 40.0
		n, err = Glass("n-bk7").Resolve(Conditions{Wavelength: 587.56e-9, Temperature: &hot})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeNumerically("~", materials.NBK7(0.58756, 40, materials.StandardPressure), 1e-12))
	})

	It("fails on unknown materials", func() {
		_, err := Glass("kryptonite").Resolve(Conditions{Wavelength: 500e-9})
		Expect(err).To(MatchError(materials.ErrUnknownMaterial))
	})
})

var _ = Describe("Validate", func() {
	DescribeTable("rejects",
		func(mutate func(*Config)) {
			cfg := DefaultConfig()
			mutate(cfg)
			Expect(cfg.Validate()).To(MatchError(ErrInvalidConfig))
		},
		Entry("zero wavelength", func(c *Config) { c.Wavelength = 0 }),
		Entry("bad sweep", func(c *Config) { c.Wavelengths = []float64{500e-9, -1} }),
		Entry("no samples", func(c *Config) { c.Samples = 0 }),
		Entry("negative ray count", func(c *Config) { c.Rays.Count = -1 }),
		Entry("empty prescription", func(c *Config) { c.Elements = nil }),
		Entry("unknown kind", func(c *Config) { c.Elements[0].Kind = "prism" }),
		Entry("zero focal length", func(c *Config) { c.Elements[0].Focal = 0 }),
		Entry("negative length", func(c *Config) { c.Elements[1].Length = -1 }),
		Entry("flat duct", func(c *Config) { c.Elements[1] = ElementSpec{Kind: KindDuct, Length: 1} }),
		Entry("thick lens without glass", func(c *Config) { c.Elements[0] = ElementSpec{Kind: KindThickLens, Radius: 1} }),
		Entry("grating without pitch", func(c *Config) { c.Elements[0] = ElementSpec{Kind: KindGrating} }),
		Entry("empty abcd", func(c *Config) { c.Elements[0] = ElementSpec{Kind: KindABCD} }),
		Entry("one beam parameter", func(c *Config) { c.Beam = &BeamConfig{W: ptr(1e-3)} }),
	)

	It("rejects unknown planes with the selector error", func() {
		cfg := DefaultConfig()
		cfg.Elements[0] = ElementSpec{Kind: KindMirror, Radius: 1, Plane: "X"}
		Expect(cfg.Validate()).To(MatchError(paraxial.ErrUnknownSelector))
	})
})

var _ = Describe("ElementSpec.Build", func() {
	cond := Conditions{Wavelength: DefaultWavelength}

	It("builds every kind", func() {
		a, c := 1.0, -10.0
		specs := map[string]ElementSpec{
			KindTransfer:   {Kind: KindTransfer, Length: 0.1, Index: N(1.5)},
			KindThinLens:   {Kind: KindThinLens, Focal: 0.1},
			KindThickLens:  {Kind: KindThickLens, Radius: 0.05, Radius2: -0.05, Length: 5e-3, Index: Glass("fs7980")},
			KindRefraction: {Kind: KindRefraction, Radius: 0.05, To: N(1.5), AOIDeg: 10, Plane: "S"},
			KindMirror:     {Kind: KindMirror, Radius: -0.2},
			KindDuct:       {Kind: KindDuct, Length: 1e-3, Index: N(1.6), Gradient: 1e5},
			KindGrating:    {Kind: KindGrating, Pitch: 1e-6, AOIDeg: 5},
			KindABCD:       {Kind: KindABCD, A: &a, C: &c, To: N(1.2)},
		}
		Expect(specs).To(HaveLen(len(Kinds)))
		for kind, spec := range specs {
			el, err := spec.Build(cond)
			Expect(err).NotTo(HaveOccurred(), kind)
			Expect(math.IsNaN(el.A+el.B+el.C+el.D)).To(BeFalse(), kind)
		}
	})

	It("treats a zero radius as flat", func() {
		el, err := ElementSpec{Kind: KindMirror}.Build(cond)
		Expect(err).NotTo(HaveOccurred())
		Expect(el.C).To(BeZero())
	})

	It("matches the direct constructors", func() {
		el, err := ElementSpec{Kind: KindThinLens, Focal: 0.05, Decenter: 1e-3}.Build(cond)
		Expect(err).NotTo(HaveOccurred())
		Expect(el.Equal(paraxial.ThinLens(0.05, paraxial.WithDecenter(1e-3)))).To(BeTrue())

		f, c := 0.02, -50.0
		el, err = ElementSpec{Kind: KindABCD, B: &f, C: &c, From: N(1.5)}.Build(cond)
		Expect(err).NotTo(HaveOccurred())
		Expect(el.StrictEqual(paraxial.NewElement(paraxial.WithB(f), paraxial.WithC(c), paraxial.WithIndices(1.5, 1)))).To(BeTrue())
	})

	It("slices only plain transfers and ducts", func() {
		tr := ElementSpec{Kind: KindTransfer, Length: 0.1, Index: N(1.5)}
		Expect(tr.Sliceable()).To(BeTrue())
		half, err := tr.Slice(cond, 0.05)
		Expect(err).NotTo(HaveOccurred())
		Expect(half.Compose(half).ApproxEqual(paraxial.Transfer(0.1, 1.5), 1e-15)).To(BeTrue())

		lens := ElementSpec{Kind: KindThinLens, Focal: 1}
		Expect(lens.Sliceable()).To(BeFalse())
		_, err = lens.Slice(cond, 0.5)
		Expect(err).To(MatchError(ErrInvalidConfig))
	})
})

var _ = Describe("Presets", func() {
	It("are all valid and buildable", func() {
		for _, family := range Families() {
			for _, name := range ListPresets(family) {
				cfg := GetPreset(family, name)
				Expect(cfg).NotTo(BeNil())
				Expect(cfg.Validate()).To(Succeed(), family+"/"+name)
				for _, wl := range cfg.SweepWavelengths() {
					_, err := cfg.System(wl)
					Expect(err).NotTo(HaveOccurred(), family+"/"+name)
				}
				beam, err := cfg.LaunchBeam(cfg.Wavelength)
				Expect(err).NotTo(HaveOccurred())
				Expect(beam == nil).To(Equal(cfg.Beam == nil))
			}
		}
	})

	It("returns copies", func() {
		a := GetPreset("relay", "4f")
		a.Elements[0].Length = 99
		Expect(GetPreset("relay", "4f").Elements[0].Length).To(Equal(50e-3))
	})

	It("returns nil for unknown names", func() {
		Expect(GetPreset("relay", "nonexistent")).To(BeNil())
		Expect(GetPreset("nonexistent", "4f")).To(BeNil())
		Expect(ListPresets("nonexistent")).To(BeNil())
	})

	It("lists sorted names", func() {
		Expect(ListPresets("telescope")).To(Equal([]string{"cassegrain", "galilean", "keplerian"}))
	})

	It("images the 4f relay with unit inverted magnification", func() {
		sys, err := GetPreset("relay", "4f").System(DefaultWavelength)
		Expect(err).NotTo(HaveOccurred())
		Expect(sys.A).To(BeNumerically("~", -1, 1e-12))
		Expect(sys.B).To(BeNumerically("~", 0, 1e-12))
	})

	It("makes the Keplerian telescope afocal", func() {
		sys, err := GetPreset("telescope", "keplerian").System(DefaultWavelength)
		Expect(err).NotTo(HaveOccurred())
		Expect(sys.C).To(BeNumerically("~", 0, 1e-12))
		Expect(sys.D).To(BeNumerically("~", -4, 1e-12))
	})
})

var _ = Describe("Env", func() {
	It("reads OPTICLAB_ variables", func() {
		GinkgoT().Setenv("OPTICLAB_DATA", "/tmp/runs")
		GinkgoT().Setenv("OPTICLAB_LOG_LEVEL", "debug")
		GinkgoT().Setenv("OPTICLAB_WORKERS", "3")

		env, err := LoadEnv()
		Expect(err).NotTo(HaveOccurred())
		Expect(env.DataDir).To(Equal("/tmp/runs"))
		Expect(env.LogLevel).To(Equal("debug"))
		Expect(env.Workers).To(Equal(3))
		Expect(env.LogDev).To(BeFalse())
	})

	It("falls back to defaults on malformed values", func() {
		GinkgoT().Setenv("OPTICLAB_WORKERS", "many")
		_, err := LoadEnv()
		Expect(err).To(HaveOccurred())

		env, err := LoadEnvOrDefault()
		Expect(err).To(HaveOccurred())
		Expect(env).To(Equal(DefaultEnv()))
	})

	It("keeps parsed values when the environment is valid", func() {
		GinkgoT().Setenv("OPTICLAB_WORKERS", "2")
		env, err := LoadEnvOrDefault()
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Workers).To(Equal(2))
	})
})
