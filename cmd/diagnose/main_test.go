package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zarladar/interactive-hydrograph/internal/hdf5"
)

func TestDiagnose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heads.h5")
	w, err := hdf5.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.CreateDataset("/Datasets/Head/Values", []uint64{3, 4}, make([]float64, 12),
		hdf5.WithChunks(1, 4), hdf5.WithShuffle(), hdf5.WithDeflate(4)); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if err := w.CreateDataset("/Grid/Top", []uint64{4}, make([]float64, 4)); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var out bytes.Buffer
	if err := diagnose(&out, path); err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		`Group "/Datasets/Head":`,
		`Dataset "/Datasets/Head/Values":`,
		"Shape: [3 4] (12 elements)",
		"Filters: shuffle, deflate",
		"Periods: 3, values per period: 4",
		`Dataset "/Grid/Top":`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
}

func TestDiagnoseNotHDF5(t *testing.T) {
	var out bytes.Buffer
	if err := diagnose(&out, filepath.Join(t.TempDir(), "missing.h5")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
