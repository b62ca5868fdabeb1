package storage

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/opticlab/internal/trace"
)

// ExportData is the JSON form of a trace. Beam curvature is exported as
// 1/R so that flat wavefronts stay finite.
type ExportData struct {
	Name       string             `json:"name"`
	Wavelength float64            `json:"wavelength"`
	Stages     []string           `json:"stages"`
	System     SystemSummary      `json:"system"`
	Steps      int                `json:"steps"`
	Z          []float64          `json:"z"`
	Stage      []int              `json:"stage"`
	Heights    [][]float64        `json:"heights"`
	Angles     [][]float64        `json:"angles"`
	BeamW      []float64          `json:"beam_w,omitempty"`
	BeamCurv   []float64          `json:"beam_curvature,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

func curvatures(radii []float64) []float64 {
	if len(radii) == 0 {
		return nil
	}
	out := make([]float64, len(radii))
	for i, r := range radii {
		if !math.IsInf(r, 0) && r != 0 {
			out[i] = 1 / r
		}
	}
	return out
}

func exportData(result *trace.Result) ExportData {
	return ExportData{
		Name:       result.Name,
		Wavelength: result.Wavelength,
		Stages:     result.Labels,
		System:     summarize(result.System),
		Steps:      result.Len(),
		Z:          result.Z,
		Stage:      result.Stage,
		Heights:    result.Heights,
		Angles:     result.Angles,
		BeamW:      result.BeamW,
		BeamCurv:   curvatures(result.BeamR),
		Metrics:    finite(result.Metrics),
	}
}

// ExportJSON writes result as indented JSON to w.
func ExportJSON(w io.Writer, result *trace.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(result))
}

// ExportJSONFile writes result to path.
func ExportJSONFile(path string, result *trace.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := ExportJSON(file, result); err != nil {
		return err
	}
	return file.Close()
}
