package metrics

import (
	"errors"
	"fmt"

	"github.com/san-kum/opticlab/internal/trace"
)

// ErrUnknownMetric is returned by ByName.
var ErrUnknownMetric = errors.New("metrics: unknown metric")

// Names lists the metrics ByName can build.
func Names() []string {
	return []string{"max_height", "min_beam_radius", "rms_spot", "transmitted"}
}

// ByName builds a fresh metric. clearRadius is used by transmitted.
func ByName(name string, clearRadius float64) (trace.Metric, error) {
	switch name {
	case "rms_spot":
		return NewSpot(), nil
	case "max_height":
		return NewEnvelope(), nil
	case "min_beam_radius":
		return NewBeamWaist(), nil
	case "transmitted":
		return NewAperture(clearRadius), nil
	}
	return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownMetric, name, Names())
}
