package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/trace"
)

func traced(t *testing.T, cfg *config.Config) *trace.Result {
	t.Helper()
	res, err := trace.RunConfig(context.Background(), cfg, cfg.Wavelength)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("beam", "focus")
	result := traced(t, cfg)
	result.Metrics = map[string]float64{"rms_spot": 1.5e-6, "undefined": math.NaN()}

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "1_mm_beam_through_f_100_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != cfg.Name {
		t.Errorf("expected name %q, got %q", cfg.Name, meta.Name)
	}
	if meta.Rays != 5 || !meta.Beam {
		t.Errorf("expected 5 rays with beam, got %d %v", meta.Rays, meta.Beam)
	}
	if meta.Metrics["rms_spot"] != 1.5e-6 {
		t.Errorf("expected rms_spot 1.5e-6, got %g", meta.Metrics["rms_spot"])
	}
	if _, ok := meta.Metrics["undefined"]; ok {
		t.Error("NaN metric should not be stored")
	}
	if meta.System.EFL == nil || math.Abs(*meta.System.EFL-100e-3) > 1e-12 {
		t.Errorf("expected efl 0.1, got %v", meta.System.EFL)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if samples.Len() != result.Len() {
		t.Fatalf("expected %d samples, got %d", result.Len(), samples.Len())
	}
	for i := range result.Z {
		if samples.Z[i] != result.Z[i] || samples.Stage[i] != result.Stage[i] {
			t.Fatalf("sample %d: got z=%g stage=%d", i, samples.Z[i], samples.Stage[i])
		}
		for j := range result.Heights[i] {
			if samples.Heights[i][j] != result.Heights[i][j] || samples.Angles[i][j] != result.Angles[i][j] {
				t.Fatalf("sample %d ray %d differs", i, j)
			}
		}
		if samples.BeamW[i] != result.BeamW[i] {
			t.Fatalf("sample %d: w %g, want %g", i, samples.BeamW[i], result.BeamW[i])
		}
		if r, want := samples.BeamR[i], result.BeamR[i]; r != want && !(math.IsInf(r, 1) && math.IsInf(want, 1)) {
			t.Fatalf("sample %d: R %g, want %g", i, r, want)
		}
	}
	if samples.Name != cfg.Name || len(samples.Labels) != 3 {
		t.Errorf("metadata not merged into samples: %q %v", samples.Name, samples.Labels)
	}

	loaded, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if len(loaded.Elements) != len(cfg.Elements) || loaded.Beam == nil {
		t.Errorf("config did not round trip: %+v", loaded)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list of missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	if _, err := st.Save(cfg, traced(t, cfg)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Beam {
		t.Error("default config has no beam")
	}

	if err := st.Delete(runs[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if runs, _ := st.List(); len(runs) != 0 {
		t.Errorf("expected 0 runs after delete, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	runID, err := st.Save(cfg, traced(t, cfg))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, samplesFile, configFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, samplesFile))
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if !strings.HasPrefix(header, "z,stage,y0,") || strings.HasSuffix(header, ",R") {
		t.Errorf("unexpected header %q", header)
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSamples: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadConfig("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadConfig: expected ErrRunNotFound, got %v", err)
	}
	if err := st.Delete("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Delete: expected ErrRunNotFound, got %v", err)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad header", "time,x0\n0,1\n"},
		{"bad value", "z,stage,y0,u0\n0,-1,abc,0\n"},
		{"bad stage", "z,stage,y0,u0\n0,first,1,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); !errors.Is(err, ErrMalformedCSV) {
				t.Errorf("expected ErrMalformedCSV, got %v", err)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	cfg := config.GetPreset("beam", "focus")
	result := traced(t, cfg)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, result); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != result.Len() || len(data.BeamCurv) != result.Len() {
		t.Errorf("expected %d steps, got %d (%d curvatures)", result.Len(), data.Steps, len(data.BeamCurv))
	}
	// The launch sits at the waist, so its wavefront is flat.
	if data.BeamCurv[0] != 0 {
		t.Errorf("expected flat launch wavefront, got curvature %g", data.BeamCurv[0])
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSONFile(path, result); err != nil {
		t.Fatalf("export to file failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("export file missing or empty: %v", err)
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	cfg := config.DefaultConfig()
	result := traced(t, cfg)
	// JSON cannot carry a NaN system matrix, so the metadata write fails
	// after config.yaml is already on disk.
	result.System.A = math.NaN()

	if _, err := st.Save(cfg, result); err == nil {
		t.Fatal("expected save to fail")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directories, got %d", len(entries))
	}
	if runs, _ := st.List(); len(runs) != 0 {
		t.Errorf("List() = %d runs, want 0", len(runs))
	}
}

func TestWriteCSVAnglesInMedium(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Medium = config.N(1.5)
	result := traced(t, cfg)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	last := result.Len() - 1
	for i, u := range result.Angles[last] {
		if back.Angles[last][i] != u {
			t.Errorf("u%d = %v, want %v", i, back.Angles[last][i], u)
		}
		if want := result.Final.U[i]; u != want {
			t.Errorf("angle %d = %v, want physical angle %v", i, u, want)
		}
	}
}
