package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/opticlab/internal/metrics"
	"github.com/san-kum/opticlab/internal/optim"
	"github.com/san-kum/opticlab/internal/trace"
	"github.com/san-kum/opticlab/internal/viz"
)

var (
	gridParams []string
	metricName string
)

func optimizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search element parameters to minimise a metric",
		Long: "Each --param is element:field:lo:hi:n with element a label or index and\n" +
			"field one of length, focal, radius, radius2, aoi_deg, decenter, tilt.\n" +
			"Example: opticlab optimize --preset focuser/singlet --param focus:length:0.09:0.1:51",
		RunE: runOptimize,
	}
	addPrescriptionFlags(cmd)
	cmd.Flags().StringArrayVar(&gridParams, "param", nil, "grid axis, repeatable")
	cmd.Flags().StringVar(&metricName, "metric", "rms_spot", fmt.Sprintf("metric to minimise %v", metrics.Names()))
	cmd.Flags().Float64Var(&aperture, "aperture", 12.7, "clear aperture radius for transmitted (mm)")
	return cmd
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrescription(cmd)
	if err != nil {
		return err
	}
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	if _, err := metrics.ByName(metricName, aperture*1e-3); err != nil {
		return err
	}

	params := make([]optim.Param, len(gridParams))
	points := 1
	for i, s := range gridParams {
		p, err := optim.ParseParam(cfg, s)
		if err != nil {
			return err
		}
		params[i] = p
		points *= len(p.Values)
	}

	log.Info("grid search", zap.String("name", cfg.Name), zap.String("metric", metricName), zap.Int("points", points))
	res, err := optim.NewGridSearch(params...).Search(cmd.Context(), cfg, func() trace.Metric {
		m, _ := metrics.ByName(metricName, aperture*1e-3)
		return m
	})
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(cfg.Name))
	fmt.Printf("evaluated %d points (%d failed)\n\n", res.Evaluated, res.Failed)

	keys := make([]string, 0, len(res.Best))
	for k := range res.Best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tBEST")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%.6g\n", k, res.Best[k])
	}
	fmt.Fprintf(w, "%s\t%.6g\n", metricName, res.Value)
	return w.Flush()
}
