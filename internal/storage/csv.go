package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/opticlab/internal/trace"
)

var ErrMalformedCSV = errors.New("malformed samples csv")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per sample: z, stage, every ray height, every
// ray angle and, when a beam was traced, w and R.
func WriteCSV(out io.Writer, result *trace.Result) error {
	w := csv.NewWriter(out)

	rays := result.Rays()
	header := []string{"z", "stage"}
	for i := 0; i < rays; i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	for i := 0; i < rays; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if result.HasBeam() {
		header = append(header, "w", "R")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Z {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(result.Z[i]), strconv.Itoa(result.Stage[i]))
		for _, v := range result.Heights[i] {
			row = append(row, formatFloat(v))
		}
		for _, v := range result.Angles[i] {
			row = append(row, formatFloat(v))
		}
		if result.HasBeam() {
			row = append(row, formatFloat(result.BeamW[i]), formatFloat(result.BeamR[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses the output of WriteCSV.
func ReadCSV(in io.Reader) (*trace.Result, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}

	header := records[0]
	if len(header) < 2 || header[0] != "z" || header[1] != "stage" {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrMalformedCSV, header)
	}
	rays := 0
	for _, h := range header[2:] {
		if strings.HasPrefix(h, "y") {
			rays++
		}
	}
	beam := header[len(header)-1] == "R"

	n := len(records) - 1
	res := &trace.Result{
		Z:       make([]float64, 0, n),
		Stage:   make([]int, 0, n),
		Heights: make([][]float64, 0, n),
		Angles:  make([][]float64, 0, n),
	}
	if beam {
		res.BeamW = make([]float64, 0, n)
		res.BeamR = make([]float64, 0, n)
	}

	for line, rec := range records[1:] {
		values := make([]float64, len(rec))
		for j, field := range rec {
			if j == 1 {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", ErrMalformedCSV, line+1, header[j], err)
			}
			values[j] = v
		}
		stage, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d stage: %v", ErrMalformedCSV, line+1, err)
		}

		res.Z = append(res.Z, values[0])
		res.Stage = append(res.Stage, stage)
		res.Heights = append(res.Heights, values[2:2+rays])
		res.Angles = append(res.Angles, values[2+rays:2+2*rays])
		if beam {
			res.BeamW = append(res.BeamW, values[2+2*rays])
			res.BeamR = append(res.BeamR, values[3+2*rays])
		}
	}
	return res, nil
}
