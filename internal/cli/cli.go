package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/zarladar/interactive-hydrograph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// labelValues collects repeated "Label=Value" flags. Labels may contain
// spaces, so the flag value is usually quoted: -set "Model Rows=353".
type labelValues map[string]string

func (v labelValues) String() string {
	parts := make([]string, 0, len(v))
	for k, val := range v {
		parts = append(parts, k+"="+val)
	}
	return strings.Join(parts, ",")
}

func (v labelValues) Set(s string) error {
	label, value, ok := strings.Cut(s, "=")
	label = strings.TrimSpace(label)
	if !ok || label == "" {
		return fmt.Errorf("%q is not of the form Label=Value", s)
	}
	v[label] = strings.TrimSpace(value)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("hydrograph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hydrograph - Extract a head time series from groundwater model output.

Usage:
  hydrograph -model MODFLOW|IWFM [options] FILE

Examples:
  hydrograph -model MODFLOW -set "Model Rows=353" -set "Model Columns=206" \
    -set "Model Layers=4" -at Row=10 -at Column=20 heads.h5
  hydrograph -model IWFM -set "Model Elements=1393" -set "Model Layers=4" \
    -at Element=12 -out element12.png GW_Heads.out

Options:
`)
		flagSet.PrintDefaults()
	}

	sizes := labelValues{}
	locations := labelValues{}
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	modelFlag := flagSet.String("model", "", "Model type: 'MODFLOW' or 'IWFM'.")
	fileFlag := flagSet.String("file", "", "Model output file (or give it as the argument).")
	flagSet.Var(sizes, "set", "Model size field as Label=Value. Repeatable.")
	flagSet.Var(locations, "at", "Location field as Label=Value. Repeatable.")
	layerFlag := flagSet.Int("layer", 0, "Write only this 1-based layer. 0 writes all layers.")
	outFlag := flagSet.String("out", "", "Output path. A .png suffix renders a plot, .parquet writes Parquet; otherwise CSV. Default stdout.")
	artifactFlag := flagSet.String("artifact-dir", "", "Directory for converted IWFM reports.")
	datasetFlag := flagSet.String("head-dataset", "", "HDF5 path of the MODFLOW head dataset.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'. Default text.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Default info.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *fileFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		slog.Debug("No model file provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:  *configFlag,
		Model:       *modelFlag,
		File:        path,
		Sizes:       sizes,
		Locations:   locations,
		Layer:       *layerFlag,
		Out:         *outFlag,
		ArtifactDir: *artifactFlag,
		HeadDataset: *datasetFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
