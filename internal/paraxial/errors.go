package paraxial

import (
	"errors"
	"fmt"
)

// Domain errors for element and beam construction.
var (
	// ErrInvalidConfiguration indicates a missing, zero or unrecognized
	// combination of construction parameters.
	ErrInvalidConfiguration = errors.New("paraxial: invalid configuration")

	// ErrDegenerateGeometry indicates a beam solve without a physical
	// (strictly complex) solution.
	ErrDegenerateGeometry = errors.New("paraxial: degenerate geometry")

	// ErrUnknownSelector indicates a plane selector outside T/S.
	ErrUnknownSelector = errors.New("paraxial: unknown selector")
)

// ConstraintError wraps a domain error with the violated constraint.
type ConstraintError struct {
	Op         string
	Constraint string
	Wrapped    error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Wrapped.Error(), e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return e.Wrapped
}

func invalid(op, constraint string) error {
	return &ConstraintError{Op: op, Constraint: constraint, Wrapped: ErrInvalidConfiguration}
}

func degenerate(op, constraint string) error {
	return &ConstraintError{Op: op, Constraint: constraint, Wrapped: ErrDegenerateGeometry}
}
