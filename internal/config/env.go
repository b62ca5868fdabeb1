package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env holds process settings read from OPTICLAB_* variables.
type Env struct {
	DataDir  string `envconfig:"DATA" default:".opticlab"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"false"`
	// Workers bounds concurrent wavelength traces; zero means GOMAXPROCS.
	Workers int `envconfig:"WORKERS" default:"0"`
}

// LoadEnv reads the environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("opticlab", &env); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	return &env, nil
}

// DefaultEnv returns the settings used when nothing is set.
func DefaultEnv() *Env {
	return &Env{DataDir: ".opticlab", LogLevel: "warn"}
}

// LoadEnvOrDefault returns DefaultEnv along with the parse error when any
// variable is malformed.
func LoadEnvOrDefault() (*Env, error) {
	env, err := LoadEnv()
	if err != nil {
		return DefaultEnv(), err
	}
	return env, nil
}
