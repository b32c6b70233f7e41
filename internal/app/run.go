package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/zarladar/interactive-hydrograph/hydrograph"
	"github.com/zarladar/interactive-hydrograph/internal/config"
	"github.com/zarladar/interactive-hydrograph/internal/plot"
)

// Run loads cfg.File, extracts the requested location and writes the
// series. Logs go to logW; CSV without an output path goes to outW.
func Run(outW, logW io.Writer, cfg *Config) error {
	var file *config.Config
	if cfg.ConfigPath != "" {
		var err error
		if file, err = config.Load(cfg.ConfigPath); err != nil {
			return err
		}
	} else {
		file = &config.Config{}
	}

	logger := newLogger(first(cfg.LogLevel, file.LogLevel, "info"), first(cfg.LogFormat, file.LogFormat, "text"), logW)
	logger.Debug("Configuration resolved.", "config_file", cfg.ConfigPath, "model", cfg.Model, "file", cfg.File)

	id, err := hydrograph.ParseModelID(cfg.Model)
	if err != nil {
		return err
	}
	var sizes, locations map[string]string
	if m := file.Model(string(id)); m != nil {
		sizes, locations = m.Size, m.Location
	}
	sizes = merge(sizes, cfg.Sizes)
	locations = merge(locations, cfg.Locations)

	session := hydrograph.NewSession(
		hydrograph.WithLogger(logger),
		hydrograph.WithArtifactDir(first(cfg.ArtifactDir, file.ArtifactDir)),
		hydrograph.WithHeadDataset(first(cfg.HeadDataset, file.HeadDataset)),
	)
	arr, err := session.Load(cfg.File, id, sizes)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.File, err)
	}
	ts, err := session.Extract(arr, id, locations)
	if err != nil {
		return fmt.Errorf("extracting series: %w", err)
	}

	var layers []int
	if cfg.Layer > 0 {
		if cfg.Layer > ts.Layers() {
			return fmt.Errorf("layer %d is outside 1..%d", cfg.Layer, ts.Layers())
		}
		layers = []int{cfg.Layer}
	} else {
		for l := 1; l <= ts.Layers(); l++ {
			layers = append(layers, l)
		}
	}

	switch {
	case cfg.Out == "" || cfg.Out == "-":
		return WriteCSV(outW, ts, layers)
	case strings.EqualFold(filepath.Ext(cfg.Out), ".png"):
		data, err := plot.Hydrograph(ts, plot.Options{
			Title:  fmt.Sprintf("%s %s", id, describe(locations)),
			Layers: layers,
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
	case strings.EqualFold(filepath.Ext(cfg.Out), ".parquet"):
		if err := WriteParquet(cfg.Out, ts, layers); err != nil {
			return err
		}
	default:
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if err := WriteCSV(f, ts, layers); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	logger.Info("Wrote hydrograph.", "out", cfg.Out, "periods", ts.Periods(), "layers", len(layers))
	return nil
}

// WriteCSV writes one row per period: step, time label and the head of
// each requested 1-based layer.
func WriteCSV(w io.Writer, ts hydrograph.TimeSeries, layers []int) error {
	cw := csv.NewWriter(w)
	header := []string{"step", "label"}
	for _, l := range layers {
		header = append(header, "layer"+strconv.Itoa(l))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for t, x := range ts.X {
		label := ""
		if t < len(ts.Labels) {
			label = ts.Labels[t]
		}
		row := []string{strconv.Itoa(x), label}
		for _, l := range layers {
			row = append(row, strconv.FormatFloat(ts.Y[t][l-1], 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// merge returns base overlaid with over.
func merge(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func describe(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + m[k]
	}
	return strings.Join(parts, ", ")
}
