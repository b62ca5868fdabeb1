package paraxial

import (
	"fmt"
	"strings"
)

// Plane selects the tangential or sagittal section of a tilted surface.
type Plane int

const (
	Tangential Plane = iota
	Sagittal
)

// ParsePlane accepts "T"/"S" in either case, or the full names.
func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "tangential":
		return Tangential, nil
	case "s", "sagittal":
		return Sagittal, nil
	default:
		return 0, &ConstraintError{Op: "parse plane", Constraint: fmt.Sprintf("unknown T_or_S: %q", s), Wrapped: ErrUnknownSelector}
	}
}

func (p Plane) valid() error {
	if p != Tangential && p != Sagittal {
		return &ConstraintError{Op: "plane", Constraint: fmt.Sprintf("unknown plane %d", int(p)), Wrapped: ErrUnknownSelector}
	}
	return nil
}

func (p Plane) String() string {
	switch p {
	case Tangential:
		return "T"
	case Sagittal:
		return "S"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}
