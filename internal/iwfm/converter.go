package iwfm

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cespare/xxhash/v2"
)

// IndexName is the artifact index file kept in a Converter's directory.
const IndexName = "artifacts.yaml"

// Converter converts report files into a directory of artifacts and
// remembers the results across runs.
type Converter struct {
	dir   string
	index *Index
}

// Artifact is the outcome of ConvertFile.
type Artifact struct {
	Path string
	// Reused is set when a previous conversion was found in the index.
	Reused bool
	Stats  ConvertStats
}

// NewConverter creates dir if needed and opens its index.
func NewConverter(dir string) (*Converter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	idx, err := OpenIndex(filepath.Join(dir, IndexName))
	if err != nil {
		return nil, err
	}
	return &Converter{dir: dir, index: idx}, nil
}

// Dir is the artifact directory.
func (c *Converter) Dir() string { return c.dir }

// Index returns the converter's artifact index.
func (c *Converter) Index() *Index { return c.index }

// ArtifactPath is where the artifact for the absolute path src is written.
func (c *Converter) ArtifactPath(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(c.dir, fmt.Sprintf("%s-%016x.txt", base, xxhash.Sum64String(src)))
}

// ConvertFile returns the artifact for src, converting it unless the
// index already holds an artifact that still exists. Changes to src after
// its first conversion are not detected.
func (c *Converter) ConvertFile(src string) (Artifact, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return Artifact{}, err
	}
	if p, ok := c.index.Lookup(abs); ok {
		if _, err := os.Stat(p); err == nil {
			return Artifact{Path: p, Reused: true}, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, err
		}
	}

	in, err := os.Open(abs)
	if err != nil {
		return Artifact{}, fmt.Errorf("opening head file: %w", err)
	}
	defer in.Close()

	dst := c.ArtifactPath(abs)
	tmp, err := os.CreateTemp(c.dir, filepath.Base(dst)+".*.tmp")
	if err != nil {
		return Artifact{}, err
	}
	defer os.Remove(tmp.Name())

	stats, err := Convert(bufio.NewReader(in), tmp, abs)
	if err != nil {
		tmp.Close()
		return Artifact{}, err
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return Artifact{}, err
	}
	if err := c.index.Put(abs, dst); err != nil {
		return Artifact{}, fmt.Errorf("saving artifact index: %w", err)
	}
	return Artifact{Path: dst, Stats: stats}, nil
}

// Load converts src if needed and parses its artifact.
func (c *Converter) Load(src string, shape Shape, mem memory.Allocator) (*Table, Artifact, error) {
	a, err := c.ConvertFile(src)
	if err != nil {
		return nil, Artifact{}, err
	}
	t, err := LoadTable(a.Path, shape, mem)
	if err != nil {
		return nil, a, err
	}
	t.Source = src
	return t, a, nil
}
