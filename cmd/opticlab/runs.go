package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/opticlab/internal/storage"
	"github.com/san-kum/opticlab/internal/viz"
)

var (
	plotRays    int
	plotCaustic bool
	plotWidth   int
	plotHeight  int
	exportPath  string
)

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tλ (nm)\tRAYS\tBEAM\tEFL (mm)")
	for _, run := range runs {
		efl := "afocal"
		if run.System.EFL != nil {
			efl = fmt.Sprintf("%.3f", *run.System.EFL*1e3)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%v\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Wavelength*1e9,
			run.Rays,
			run.Beam,
			efl,
		)
	}
	return w.Flush()
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and prescription",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(meta.Name))
	fmt.Println(viz.Field("run", meta.ID))
	fmt.Println(viz.Field("time", meta.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(viz.Field("wavelength", fmt.Sprintf("%.1f nm", meta.Wavelength*1e9)))
	fmt.Println(viz.Field("stages", strings.Join(meta.Stages, " → ")))
	s := meta.System
	fmt.Println(viz.Field("ABCD", fmt.Sprintf("%.6g %.6g %.6g %.6g", s.A, s.B, s.C, s.D)))
	if s.EFL != nil {
		fmt.Println(viz.Field("efl", fmt.Sprintf("%.4f mm", *s.EFL*1e3)))
	}
	printMetrics(meta.Metrics)

	cfg, err := st.LoadConfig(args[0])
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.Separator(40))
	for i, e := range cfg.Elements {
		fmt.Printf("%2d  %-12s %s\n", i, e.Kind, e.Label)
	}
	return nil
}

func plotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored ray heights or beam caustic",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&plotRays, "rays", 5, "rays to draw, 0 for all")
	cmd.Flags().BoolVar(&plotCaustic, "caustic", false, "plot the beam radius instead of rays")
	cmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	cmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if result.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("samples: %d\n\n", result.Len())

	opts := viz.PlotOptions{Width: plotWidth, Height: plotHeight}
	var graph string
	if plotCaustic {
		graph, err = viz.PlotCaustic(result, opts)
	} else {
		graph, err = viz.PlotRays(result, plotRays, opts)
	}
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportCSVCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := storage.New(dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(os.Stdout, result)
		},
	}
}

func exportJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := storage.New(dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}
			if exportPath == "" {
				return storage.ExportJSON(os.Stdout, result)
			}
			if err := storage.ExportJSONFile(exportPath, result); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", exportPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportPath, "output", "o", "", "output file (default stdout)")
	return cmd
}
