package app

import (
	"errors"
	"fmt"
)

// Config holds everything a single Run needs. Empty strings fall back to
// the configuration file, then to built-in defaults.
type Config struct {
	ConfigPath string // optional HCL file
	Model      string
	File       string

	// Sizes and Locations are form labels to values, e.g. "Model Rows"=353.
	// They override the configuration file's model block.
	Sizes     map[string]string
	Locations map[string]string

	// Layer selects one 1-based layer for output; 0 writes every layer.
	Layer int
	// Out is the output path. A .png suffix renders a plot and .parquet
	// writes a Parquet file; anything else writes CSV. Empty or "-" writes
	// CSV to standard output.
	Out string

	ArtifactDir string
	HeadDataset string
	LogFormat   string
	LogLevel    string
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.File == "" {
		return nil, errors.New("a model output file is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("a model type is required")
	}
	if cfg.Layer < 0 {
		return nil, fmt.Errorf("invalid layer %d: must be 1 or more, or 0 for all layers", cfg.Layer)
	}
	return &cfg, nil
}
