package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/metrics"
	"github.com/san-kum/opticlab/internal/paraxial"
	"github.com/san-kum/opticlab/internal/storage"
	"github.com/san-kum/opticlab/internal/trace"
	"github.com/san-kum/opticlab/internal/viz"
)

var (
	aperture float64 // mm
	noSave   bool
	showPlot bool

	beamW, beamR, beamZ, beamZR, beamN float64 // mm, index
	beamSign                           int

	abcd   []float64
	n1, n2 float64

	sweepFrom, sweepTo float64 // nm
	sweepCount         int
)

func traceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "trace a ray fan (and beam) through a prescription",
		RunE:  runTrace,
	}
	addPrescriptionFlags(cmd)
	cmd.Flags().Float64Var(&aperture, "aperture", 12.7, "clear aperture radius for the transmitted metric (mm)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "draw the ray diagram")
	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrescription(cmd)
	if err != nil {
		return err
	}

	log.Info("tracing", zap.String("name", cfg.Name), zap.Float64("wavelength", cfg.Wavelength),
		zap.Int("elements", len(cfg.Elements)))
	start := time.Now()

	result, err := trace.RunConfig(cmd.Context(), cfg, cfg.Wavelength, metrics.Default(aperture*1e-3)...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Title.Render(cfg.Name))
	fmt.Printf("wavelength: %.1f nm\n", result.Wavelength*1e9)
	fmt.Printf("samples: %d (%v)\n\n", result.Len(), elapsed)

	if err := printStages(cfg, result); err != nil {
		return err
	}
	fmt.Println()
	printSystem(result.System)
	fmt.Println()
	printMetrics(result.Metrics)

	if result.Beam != nil {
		fmt.Println("\noutput beam:")
		fmt.Println(result.Beam)
	}
	if showPlot {
		fmt.Println()
		fmt.Print(viz.RayDiagram(result, viz.DefaultDiagramOptions()))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	log.Info("saved run", zap.String("id", runID))
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printStages(cfg *config.Config, r *trace.Result) error {
	// Axial position where each stage ends.
	end := make([]float64, len(r.Labels))
	for i, s := range r.Stage {
		if s >= 0 {
			end[s] = r.Z[i]
		}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLABEL\tKIND\tEND (mm)")
	for i, label := range r.Labels {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\n", i, label, cfg.Elements[i].Kind, end[i]*1e3)
	}
	return w.Flush()
}

func printSystem(sys paraxial.Element) {
	fmt.Println("system:")
	fmt.Println(sys)
	fmt.Printf("det: %.6g\n", sys.Determinant())
	if sys.Afocal() {
		fmt.Printf("afocal, angular magnification %.4g\n", sys.D*sys.N1/sys.N2)
		return
	}
	fmt.Printf("efl: %.4f mm\n", sys.FocalLength2()*1e3)
	fmt.Printf("bfl: %.4f mm\n", trace.Focus(sys)*1e3)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func beamCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beam",
		Short: "describe a Gaussian beam and propagate it through a prescription",
		Long: "Builds a beam from any two of --w, --r, --z, --zr (mm). Without beam\n" +
			"flags the launch beam of --config or --preset is used.",
		RunE: runBeam,
	}
	addPrescriptionFlags(cmd)
	cmd.Flags().Float64Var(&beamW, "w", 1, "1/e² radius (mm)")
	cmd.Flags().Float64Var(&beamR, "r", 0, "wavefront radius, 0 for flat (mm)")
	cmd.Flags().Float64Var(&beamZ, "z", 0, "distance past the waist (mm)")
	cmd.Flags().Float64Var(&beamZR, "zr", 0, "Rayleigh range (mm)")
	cmd.Flags().Float64Var(&beamN, "n", 1, "index of the launch medium")
	cmd.Flags().IntVar(&beamSign, "sign", 1, "branch for w&z, w&zR and R&zR: +1 diverging, -1 converging")
	return cmd
}

func runBeam(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrescription(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	opts := []paraxial.BeamOption{
		paraxial.WithWavelength(cfg.Wavelength),
		paraxial.WithIndex(beamN),
		paraxial.WithSign(beamSign),
	}
	given := 0
	for name, opt := range map[string]func(float64) paraxial.BeamOption{
		"w": paraxial.WithW, "r": paraxial.WithR, "z": paraxial.WithZ, "zr": paraxial.WithZR,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetFloat64(name)
			opts = append(opts, opt(v*1e-3))
			given++
		}
	}

	var beam paraxial.GaussianBeam
	switch {
	case given > 0:
		beam, err = paraxial.NewGaussianBeam(opts...)
		if err != nil {
			return err
		}
	case cfg.Beam != nil:
		b, err := cfg.LaunchBeam(cfg.Wavelength)
		if err != nil {
			return err
		}
		beam = *b
	default:
		return fmt.Errorf("no beam: pass two of --w, --r, --z, --zr or a prescription with a beam")
	}

	fmt.Println(viz.Title.Render("input beam"))
	fmt.Println(beam)

	if configFile == "" && preset == "" {
		return nil
	}
	sys, err := cfg.System(cfg.Wavelength)
	if err != nil {
		return err
	}
	out := sys.ApplyBeam(beam)
	fmt.Println()
	fmt.Println(viz.Title.Render("after " + cfg.Name))
	fmt.Println(out)
	return nil
}

func cardinalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cardinal",
		Short: "cardinal points of a prescription or of an explicit ABCD",
		RunE:  runCardinal,
	}
	addPrescriptionFlags(cmd)
	cmd.Flags().Float64SliceVar(&abcd, "abcd", nil, "explicit A,B,C,D (m)")
	cmd.Flags().Float64Var(&n1, "n1", 1, "input index for --abcd")
	cmd.Flags().Float64Var(&n2, "n2", 1, "output index for --abcd")
	return cmd
}

func runCardinal(cmd *cobra.Command, args []string) error {
	var sys paraxial.Element
	name := "abcd"
	if cmd.Flags().Changed("abcd") {
		if len(abcd) != 4 {
			return fmt.Errorf("--abcd needs 4 values, got %d", len(abcd))
		}
		sys = paraxial.NewElement(
			paraxial.WithA(abcd[0]), paraxial.WithB(abcd[1]),
			paraxial.WithC(abcd[2]), paraxial.WithD(abcd[3]),
			paraxial.WithIndices(n1, n2),
		)
	} else {
		cfg, err := loadPrescription(cmd)
		if err != nil {
			return err
		}
		if sys, err = cfg.System(cfg.Wavelength); err != nil {
			return err
		}
		name = cfg.Name
	}

	fmt.Println(viz.Title.Render(name))
	printSystem(sys)
	fmt.Println()

	cp := sys.Cardinal()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINT\tFRONT (mm)\tBACK (mm)")
	fmt.Fprintf(w, "focal point\t%s\t%s\n", mm(cp.F1), mm(cp.F2))
	fmt.Fprintf(w, "principal plane\t%s\t%s\n", mm(cp.P1), mm(cp.P2))
	fmt.Fprintf(w, "nodal point\t%s\t%s\n", mm(cp.N1), mm(cp.N2))
	fmt.Fprintf(w, "focal length\t%s\t%s\n", mm(cp.FocalLength1), mm(cp.FocalLength2))
	return w.Flush()
}

func mm(v float64) string {
	if math.IsInf(v, 0) {
		if v > 0 {
			return "+inf"
		}
		return "-inf"
	}
	return fmt.Sprintf("%.4f", v*1e3)
}

func spectrumCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "chromatic focal shift across wavelengths",
		RunE:  runSpectrum,
	}
	addPrescriptionFlags(cmd)
	cmd.Flags().Float64Var(&sweepFrom, "from", 450, "first wavelength (nm)")
	cmd.Flags().Float64Var(&sweepTo, "to", 700, "last wavelength (nm)")
	cmd.Flags().IntVar(&sweepCount, "count", 26, "wavelengths in the sweep")
	return cmd
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrescription(cmd)
	if err != nil {
		return err
	}

	wls := cfg.SweepWavelengths()
	flags := cmd.Flags()
	if flags.Changed("from") || flags.Changed("to") || flags.Changed("count") || len(cfg.Wavelengths) == 0 {
		if sweepCount < 1 {
			return fmt.Errorf("--count must be positive")
		}
		wls = make([]float64, sweepCount)
		for i := range wls {
			t := 0.0
			if sweepCount > 1 {
				t = float64(i) / float64(sweepCount-1)
			}
			wls[i] = (sweepFrom + t*(sweepTo-sweepFrom)) * 1e-9
		}
	}

	log.Info("sweeping", zap.String("name", cfg.Name), zap.Int("wavelengths", len(wls)), zap.Int("workers", workers))
	results, err := trace.Sweep(cmd.Context(), cfg, wls, workers, func() []trace.Metric {
		return []trace.Metric{metrics.NewSpot()}
	})
	if err != nil {
		return err
	}

	ref := trace.Focus(results[len(results)/2].System)
	shifts := make([]float64, len(results))

	fmt.Println(viz.Title.Render(cfg.Name))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "λ (nm)\tEFL (mm)\tBFL (mm)\tSHIFT (µm)\tRMS SPOT (µm)")
	for i, r := range results {
		bfl := trace.Focus(r.System)
		shifts[i] = (bfl - ref) * 1e6
		fmt.Fprintf(w, "%.1f\t%s\t%s\t%.2f\t%.3f\n", r.Wavelength*1e9,
			mm(r.System.FocalLength2()), mm(bfl), shifts[i], r.Metrics["rms_spot"]*1e6)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 2 && !math.IsInf(ref, 0) {
		opts := viz.DefaultPlotOptions()
		opts.Height = 8
		fmt.Println()
		fmt.Println(viz.PlotSeries(shifts, "focal shift (µm) vs wavelength", opts))
	}
	return nil
}
