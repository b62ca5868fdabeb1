package optim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/opticlab/internal/config"
)

// ParseParam parses "element:field:lo:hi:n", where element is a label or
// index and lo and hi are in the field's units (metres for lengths).
func ParseParam(cfg *config.Config, s string) (Param, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return Param{}, fmt.Errorf("optim: parameter %q must be element:field:lo:hi:n", s)
	}

	elem := -1
	for i, e := range cfg.Elements {
		if e.Label == parts[0] {
			elem = i
			break
		}
	}
	if elem < 0 {
		i, err := strconv.Atoi(parts[0])
		if err != nil || i < 0 || i >= len(cfg.Elements) {
			return Param{}, fmt.Errorf("optim: no element %q", parts[0])
		}
		elem = i
	}

	if _, err := field(&cfg.Elements[elem], parts[1]); err != nil {
		return Param{}, err
	}

	lo, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Param{}, fmt.Errorf("optim: lower bound: %w", err)
	}
	hi, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return Param{}, fmt.Errorf("optim: upper bound: %w", err)
	}
	n, err := strconv.Atoi(parts[4])
	if err != nil || n < 1 {
		return Param{}, fmt.Errorf("optim: point count %q must be a positive integer", parts[4])
	}
	return Param{Element: elem, Field: parts[1], Values: Linspace(lo, hi, n)}, nil
}
