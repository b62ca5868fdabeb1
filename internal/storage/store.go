package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/paraxial"
	"github.com/san-kum/opticlab/internal/trace"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	configFile   = "config.yaml"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the directory holding runID.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// SystemSummary is the composed ABCD of a traced system.
type SystemSummary struct {
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	C      float64 `json:"c"`
	D      float64 `json:"d"`
	E      float64 `json:"e"`
	F      float64 `json:"f"`
	N1     float64 `json:"n1"`
	N2     float64 `json:"n2"`
	Afocal bool    `json:"afocal"`
	// EFL is omitted for afocal systems.
	EFL *float64 `json:"efl,omitempty"`
}

func summarize(el paraxial.Element) SystemSummary {
	sum := SystemSummary{
		A: el.A, B: el.B, C: el.C, D: el.D,
		E: el.E, F: el.F, N1: el.N1, N2: el.N2,
		Afocal: el.Afocal(),
	}
	if !sum.Afocal {
		efl := el.FocalLength2()
		sum.EFL = &efl
	}
	return sum
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Wavelength float64            `json:"wavelength"`
	Samples    int                `json:"samples"`
	Rays       int                `json:"rays"`
	Beam       bool               `json:"beam"`
	Stages     []string           `json:"stages"`
	System     SystemSummary      `json:"system"`
	Metrics    map[string]float64 `json:"metrics"`
}

// finite drops NaN and infinite values, which JSON cannot carry.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// Save writes the configuration, metadata and sampled trace of a run and
// returns its ID. A failed save leaves no run directory behind.
func (s *Store) Save(cfg *config.Config, result *trace.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", slug(cfg.Name), uuid.NewString()[:8])
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  time.Now(),
		Wavelength: result.Wavelength,
		Samples:    cfg.Samples,
		Rays:       result.Rays(),
		Beam:       result.HasBeam(),
		Stages:     result.Labels,
		System:     summarize(result.System),
		Metrics:    finite(result.Metrics),
	}

	if err := writeRun(runDir, cfg, &meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, cfg *config.Config, meta *RunMetadata, result *trace.Result) error {
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, result); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadConfig returns the configuration a run was traced with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	path := filepath.Join(s.Dir(runID), configFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return config.Load(path)
}

// LoadSamples reads back the sampled columns of a run. System, Final and
// Beam are not stored and stay zero.
func (s *Store) LoadSamples(runID string) (*trace.Result, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	res, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	if meta, err := s.Load(runID); err == nil {
		res.Name = meta.Name
		res.Wavelength = meta.Wavelength
		res.Labels = meta.Stages
		res.Metrics = meta.Metrics
	}
	return res, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	dir := s.Dir(runID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return os.RemoveAll(dir)
}
