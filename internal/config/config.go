// Package config decodes the HCL configuration file. Expressions may read
// environment variables through the env object, e.g.
//
//	artifact_dir = "${env.HOME}/.cache/hydrograph"
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config is the top level of a configuration file. Zero values mean
// "not set"; callers layer flags on top.
type Config struct {
	LogLevel    string   `hcl:"log_level,optional"`
	LogFormat   string   `hcl:"log_format,optional"`
	ArtifactDir string   `hcl:"artifact_dir,optional"`
	HeadDataset string   `hcl:"head_dataset,optional"`
	Models      []*Model `hcl:"model,block"`
}

// Model holds default UI parameters for one model family.
type Model struct {
	Name     string            `hcl:"name,label"`
	Size     map[string]string `hcl:"size,optional"`
	Location map[string]string `hcl:"location,optional"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}
	return decode(path, file)
}

// Parse decodes src as if read from filename.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", filename, diags.Error())
	}
	return decode(filename, file)
}

func decode(name string, file *hcl.File) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, evalContext(os.Environ()), &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", name, diags.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", name, err)
	}
	return &cfg, nil
}

func evalContext(environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

// Validate checks the enumerated settings and model block names.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", c.LogFormat)
	}
	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("model block with an empty name")
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate model block %q", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

// Model returns the block for name, or nil.
func (c *Config) Model(name string) *Model {
	if c == nil {
		return nil
	}
	for _, m := range c.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}
