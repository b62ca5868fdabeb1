package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/logging"
)

var (
	dataDir  string
	logLevel string
	workers  int
	log      = logging.NewNop()

	// Prescription selection shared by trace, beam, cardinal, spectrum and explore.
	configFile string
	preset     string
	wavelength float64 // nm
	samples    int
	rays       int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:               "opticlab",
		Short:             "paraxial ABCD optics lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { _ = log.Sync() },
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".opticlab", "data directory (OPTICLAB_DATA)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (OPTICLAB_LOG_LEVEL)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "concurrent wavelength traces, 0 for all cores (OPTICLAB_WORKERS)")

	rootCmd.AddCommand(
		traceCommand(),
		beamCommand(),
		cardinalCommand(),
		spectrumCommand(),
		coupleCommand(),
		doubletCommand(),
		presetsCommand(),
		materialsCommand(),
		listCommand(),
		showCommand(),
		plotCommand(),
		exportCSVCommand(),
		exportJSONCommand(),
		exploreCommand(),
		optimizeCommand(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup applies OPTICLAB_* settings for flags left at their defaults and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	env, envErr := config.LoadEnvOrDefault()
	flags := cmd.Flags()
	if !flags.Changed("data") {
		dataDir = env.DataDir
	}
	if !flags.Changed("log-level") {
		logLevel = env.LogLevel
	}
	if !flags.Changed("workers") {
		workers = env.Workers
	}

	logger, err := logging.New(logging.Config{Level: logLevel, Development: env.LogDev})
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("falling back to default logger", zap.String("level", logLevel), zap.Error(err))
	}
	log = logger
	if envErr != nil {
		log.Warn("ignoring malformed environment", zap.Error(envErr))
	}
	log.Debug("command started", zap.String("command", cmd.CommandPath()), zap.Strings("args", args))
	return nil
}

// addPrescriptionFlags registers the flags selecting and overriding a
// prescription.
func addPrescriptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "prescription file (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset, family/name (see presets)")
	cmd.Flags().Float64Var(&wavelength, "wavelength", config.DefaultWavelength*1e9, "wavelength (nm)")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "samples per transfer")
	cmd.Flags().IntVar(&rays, "rays", config.DefaultRayCount, "rays in the fan")
}

// loadPrescription resolves --config, then --preset, then the default
// singlet. Explicitly set flags override the file.
func loadPrescription(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log.Info("loaded config", zap.String("path", configFile), zap.String("name", cfg.Name))
	case preset != "":
		family, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be family/name, got %q", preset)
		}
		cfg = config.GetPreset(family, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", preset, family, config.ListPresets(family))
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("wavelength") {
		cfg.Wavelength = wavelength * 1e-9
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("rays") {
		cfg.Rays.Count = rays
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
