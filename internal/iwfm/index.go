package iwfm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Index persists the mapping from absolute source path to converted
// artifact path. The whole file is rewritten on every Put.
type Index struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// indexFile is the on-disk form.
type indexFile struct {
	Artifacts map[string]string `yaml:"artifacts"`
}

// OpenIndex loads the index at path. A missing file is an empty index.
func OpenIndex(path string) (*Index, error) {
	idx := &Index{path: path, entries: map[string]string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading artifact index: %w", err)
	}
	var f indexFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing artifact index %s: %w", path, err)
	}
	for k, v := range f.Artifacts {
		idx.entries[k] = v
	}
	return idx, nil
}

// Lookup returns the artifact recorded for source.
func (x *Index) Lookup(source string) (string, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	a, ok := x.entries[source]
	return a, ok
}

// Len is the number of recorded artifacts.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.entries)
}

// Put records artifact for source and saves the index.
func (x *Index) Put(source, artifact string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[source] = artifact
	data, err := yaml.Marshal(indexFile{Artifacts: x.entries})
	if err != nil {
		return err
	}
	return writeAtomic(x.path, data)
}

// writeAtomic replaces path with data through a temporary file in the
// same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
