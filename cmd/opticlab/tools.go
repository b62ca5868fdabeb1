package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/equations"
	"github.com/san-kum/opticlab/internal/materials"
	"github.com/san-kum/opticlab/internal/viz"
)

// Fraunhofer d line (µm).
const dLine = 0.5875618

var (
	coupleWl                   float64 // nm
	wIn, wFiber                float64 // µm
	dx, dz, tilt               float64 // µm, µm, deg
	coupleN                    float64
	core, cladding, coreRadius float64 // index, index, µm
	doubletF                   float64 // mm
	glassA, glassB             string
	doubletNA, doubletVA       float64
	doubletNB, doubletVB       float64
	matWavelength, matTemp     float64 // nm, °C
)

func coupleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "couple",
		Short: "Gaussian fiber coupling efficiency",
		Long: "Overlap of an incoming focus with a fiber mode. The fiber waist is\n" +
			"--w-fiber, or the best fit to a step index fiber given --core,\n" +
			"--cladding and --core-radius.",
		RunE: runCouple,
	}
	cmd.Flags().Float64Var(&coupleWl, "wavelength", 1550, "wavelength (nm)")
	cmd.Flags().Float64Var(&wIn, "w-in", 5.2, "incoming waist (µm)")
	cmd.Flags().Float64Var(&wFiber, "w-fiber", 5.2, "fiber mode waist (µm)")
	cmd.Flags().Float64Var(&dx, "dx", 0, "transverse offset (µm)")
	cmd.Flags().Float64Var(&dz, "dz", 0, "longitudinal offset (µm)")
	cmd.Flags().Float64Var(&tilt, "tilt", 0, "angular offset (deg)")
	cmd.Flags().Float64Var(&coupleN, "n", 1, "medium index")
	cmd.Flags().Float64Var(&core, "core", 0, "core index")
	cmd.Flags().Float64Var(&cladding, "cladding", 0, "cladding index")
	cmd.Flags().Float64Var(&coreRadius, "core-radius", 0, "core radius (µm)")
	return cmd
}

func runCouple(cmd *cobra.Command, args []string) error {
	wl := coupleWl * 1e-9
	fiber := wFiber * 1e-6
	if !cmd.Flags().Changed("w-fiber") && core > 0 {
		if cladding <= 0 || cladding >= core || coreRadius <= 0 {
			return fmt.Errorf("step index fiber needs core > cladding > 0 and a positive core radius")
		}
		fiber = equations.BestFitWaist(core, cladding, coreRadius*1e-6, wl)
		fmt.Println(viz.Field("NA", fmt.Sprintf("%.4f", equations.NAFromIndices(core, cladding))))
		fmt.Println(viz.Field("fiber waist", fmt.Sprintf("%.3f µm", fiber*1e6)))
	}

	off := equations.Offsets{Transverse: dx * 1e-6, Longitudinal: dz * 1e-6, Angular: tilt}
	eff := equations.FiberCouplingEfficiency(wl, wIn*1e-6, fiber, off, coupleN)
	fmt.Println(viz.Field("efficiency", fmt.Sprintf("%.4f (%.3f dB)", eff, dB(eff))))
	return nil
}

func dB(eff float64) float64 { return 10 * math.Log10(eff) }

func doubletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doublet",
		Short: "solve a cemented achromatic doublet",
		RunE:  runDoublet,
	}
	cmd.Flags().Float64Var(&doubletF, "f", 100, "focal length (mm)")
	cmd.Flags().StringVar(&glassA, "glass-a", "n-bk7", "front (crown) material")
	cmd.Flags().StringVar(&glassB, "glass-b", "n-sf5", "rear (flint) material")
	cmd.Flags().Float64Var(&doubletNA, "na", 0, "front index, overrides --glass-a")
	cmd.Flags().Float64Var(&doubletVA, "va", 0, "front Abbe number, overrides --glass-a")
	cmd.Flags().Float64Var(&doubletNB, "nb", 0, "rear index, overrides --glass-b")
	cmd.Flags().Float64Var(&doubletVB, "vb", 0, "rear Abbe number, overrides --glass-b")
	return cmd
}

// glassConstants returns nd and Vd for name, with explicit flag values
// taking precedence.
func glassConstants(cmd *cobra.Command, name, nFlag, vFlag string, n, v float64) (float64, float64, error) {
	flags := cmd.Flags()
	if flags.Changed(nFlag) && flags.Changed(vFlag) {
		return n, v, nil
	}
	m, err := materials.Lookup(name)
	if err != nil {
		return 0, 0, err
	}
	nd, vd := m.Index(dLine), m.AbbeNumber()
	if flags.Changed(nFlag) {
		nd = n
	}
	if flags.Changed(vFlag) {
		vd = v
	}
	return nd, vd, nil
}

func runDoublet(cmd *cobra.Command, args []string) error {
	na, va, err := glassConstants(cmd, glassA, "na", "va", doubletNA, doubletVA)
	if err != nil {
		return err
	}
	nb, vb, err := glassConstants(cmd, glassB, "nb", "vb", doubletNB, doubletVB)
	if err != nil {
		return err
	}
	if va == vb {
		return fmt.Errorf("glasses need different Abbe numbers")
	}

	fmt.Printf("f = %.2f mm, A: n=%.5f V=%.2f, B: n=%.5f V=%.2f\n\n", doubletF, na, va, nb, vb)
	sols := equations.AchromaticDoublet(doubletF*1e-3, na, va, nb, vb)
	if len(sols) == 0 {
		fmt.Println("no aplanatic solution for these glasses")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tR1 (mm)\tR2 (mm)\tR3 (mm)\tR4 (mm)")
	for i, s := range sols {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, radius(s.C1), radius(s.C2), radius(s.C3), radius(s.C4))
	}
	return w.Flush()
}

func radius(c float64) string {
	if c == 0 {
		return "flat"
	}
	return fmt.Sprintf("%.3f", 1e3/c)
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [family]",
		Short: "list preset prescriptions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			families := config.Families()
			if len(args) == 1 {
				families = args[:1]
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tDESCRIPTION\tELEMENTS")
			found := false
			for _, family := range families {
				for _, name := range config.ListPresets(family) {
					cfg := config.GetPreset(family, name)
					fmt.Fprintf(w, "%s/%s\t%s\t%d\n", family, name, cfg.Name, len(cfg.Elements))
					found = true
				}
			}
			if !found {
				return fmt.Errorf("no presets for family %q (families: %v)", args[0], config.Families())
			}
			return w.Flush()
		},
	}
}

func materialsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials [name]",
		Short: "list materials or evaluate one index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMaterials,
	}
	cmd.Flags().Float64Var(&matWavelength, "wavelength", dLine*1e3, "wavelength (nm)")
	cmd.Flags().Float64Var(&matTemp, "temperature", 0, "temperature (°C), default the reference")
	return cmd
}

func runMaterials(cmd *cobra.Command, args []string) error {
	wl := matWavelength * 1e-3
	if len(args) == 1 {
		m, err := materials.Lookup(args[0])
		if err != nil {
			return fmt.Errorf("%w (known: %v)", err, materials.Names())
		}
		temp := m.ReferenceTemperature
		if cmd.Flags().Changed("temperature") {
			temp = matTemp
		}
		fmt.Println(viz.Title.Render(m.Name))
		if m.Description != "" {
			fmt.Println(viz.Subtle.Render(m.Description))
		}
		fmt.Println(viz.Field("n", fmt.Sprintf("%.6f at %.1f nm, %.1f °C", m.IndexAt(wl, temp, materials.StandardPressure), matWavelength, temp)))
		fmt.Println(viz.Field("Abbe Vd", fmt.Sprintf("%.2f", m.AbbeNumber())))
		if !m.InRange(wl) {
			fmt.Println(viz.Subtle.Render(fmt.Sprintf("outside fitted range %.3g-%.3g µm", m.MinWavelength, m.MaxWavelength)))
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tn @ %.1f nm\tVd\tRANGE (µm)\tDESCRIPTION\n", matWavelength)
	for _, name := range materials.Names() {
		m, err := materials.Lookup(name)
		if err != nil {
			return err
		}
		rng := "-"
		if m.MinWavelength > 0 || m.MaxWavelength > 0 {
			rng = fmt.Sprintf("%.3g-%.3g", m.MinWavelength, m.MaxWavelength)
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.2f\t%s\t%s\n", name, m.Index(wl), m.AbbeNumber(), rng, m.Description)
	}
	return w.Flush()
}

func exploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "tune a prescription interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPrescription(cmd)
			if err != nil {
				return err
			}
			return viz.RunExplorer(cfg, log)
		},
	}
	addPrescriptionFlags(cmd)
	return cmd
}
