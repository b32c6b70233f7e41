package hydrograph

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures a Session or DefaultRegistry.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	artifactDir string
	headDataset string
	registry    *Registry
}

func newOptions(opts []Option) *options {
	o := &options{logger: discard, artifactDir: defaultArtifactDir()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func defaultArtifactDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "hydrograph")
	}
	return filepath.Join(os.TempDir(), "hydrograph")
}

// WithLogger sets the session logger. Output is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithArtifactDir sets where converted IWFM reports and their index are
// kept. The default is a hydrograph directory under the user cache.
func WithArtifactDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.artifactDir = dir
		}
	}
}

// WithHeadDataset sets the HDF5 path MODFLOW heads are read from.
func WithHeadDataset(path string) Option {
	return func(o *options) { o.headDataset = path }
}

// WithRegistry replaces the default model registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}
