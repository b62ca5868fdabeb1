package main

import (
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func setupCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "opticlab"}
	cmd.Flags().StringVar(&dataDir, "data", ".opticlab", "")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "")
	cmd.Flags().IntVar(&workers, "workers", 0, "")
	return cmd
}

func TestSetupReadsEnvironment(t *testing.T) {
	t.Setenv("OPTICLAB_DATA", "/tmp/opticlab-runs")
	t.Setenv("OPTICLAB_WORKERS", "3")

	if err := setup(setupCommand(), nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if dataDir != "/tmp/opticlab-runs" {
		t.Errorf("dataDir = %q, want /tmp/opticlab-runs", dataDir)
	}
	if workers != 3 {
		t.Errorf("workers = %d, want 3", workers)
	}
}

func TestSetupFallsBackOnMalformedEnvironment(t *testing.T) {
	t.Setenv("OPTICLAB_DATA", "/tmp/ignored")
	t.Setenv("OPTICLAB_WORKERS", "many")

	if err := setup(setupCommand(), nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if dataDir != ".opticlab" {
		t.Errorf("dataDir = %q, want .opticlab", dataDir)
	}
	if workers != 0 {
		t.Errorf("workers = %d, want 0", workers)
	}
}

func TestSetupFallsBackOnBadLogLevel(t *testing.T) {
	t.Setenv("OPTICLAB_LOG_LEVEL", "loud")

	if err := setup(setupCommand(), nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("fallback logger should log at info")
	}
}
