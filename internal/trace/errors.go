package trace

import (
	"errors"
	"fmt"
)

var (
	ErrNoStages      = errors.New("trace: no stages")
	ErrInvalidSample = errors.New("trace: invalid sample count")
)

// StageError reports a failure at a stage.
type StageError struct {
	Stage   int
	Label   string
	Z       float64
	Wrapped error
}

func (e StageError) Error() string {
	return fmt.Sprintf("stage %d (%s) at z=%.4g: %v", e.Stage, e.Label, e.Z, e.Wrapped)
}

func (e StageError) Unwrap() error { return e.Wrapped }
