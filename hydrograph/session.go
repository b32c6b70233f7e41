// Package hydrograph loads groundwater model head output and extracts a
// location's head series for plotting.
//
// A Session is the entry point. Load maps the form's size labels for a
// model, reads the file once and caches the array for the life of the
// session. Extract maps the location labels and slices a TimeSeries out
// of a loaded array:
//
//	s := hydrograph.NewSession()
//	a, err := s.Load("heads.h5", hydrograph.MODFLOW, map[string]string{
//		"Model Rows": "353", "Model Columns": "206", "Model Layers": "4",
//	})
//	...
//	ts, err := s.Extract(a, hydrograph.MODFLOW, map[string]string{"Row": "10", "Column": "20"})
package hydrograph

import (
	"log/slog"
	"time"

	"github.com/zarladar/interactive-hydrograph/internal/cache"
)

// Session owns a model registry and the array cache. It is safe for
// concurrent use.
type Session struct {
	registry *Registry
	cache    *cache.Cache[Array]
	log      *slog.Logger
}

// NewSession returns a session with an empty cache.
func NewSession(opts ...Option) *Session {
	o := newOptions(opts)
	reg := o.registry
	if reg == nil {
		reg = defaultRegistry(o)
	}
	return &Session{registry: reg, cache: cache.New[Array](), log: o.logger}
}

// Registry returns the session's models.
func (s *Session) Registry() *Registry { return s.registry }

// Cached reports whether file has already been loaded.
func (s *Session) Cached(file string) bool { return s.cache.Contains(file) }

// Load returns the array for file. The first load of a file reads it with
// raw's sizes; later loads return the cached array whatever raw holds.
func (s *Session) Load(file string, model ModelID, raw map[string]string) (Array, error) {
	m, err := s.registry.Lookup(model)
	if err != nil {
		return nil, err
	}
	p, err := m.SizeFields().Map(raw)
	if err != nil {
		return nil, err
	}

	a, hit, err := s.cache.GetOrLoad(file, func(key string) (Array, error) {
		s.log.Debug("Cache miss, loading.", "model", model, "file", key)
		start := time.Now()
		a, err := m.Load(key, p)
		if err != nil {
			return nil, err
		}
		s.log.Info("Loaded head array.", "model", model, "file", key, "duration", time.Since(start), "shape", a)
		return a, nil
	})
	if err != nil {
		s.log.Debug("Load failed.", "model", model, "file", file, "error", err)
		return nil, err
	}
	if hit {
		s.log.Debug("Cache hit.", "model", model, "file", file)
	}
	if a.Family() != string(model) {
		return nil, arrayMismatch(a, model)
	}
	return a, nil
}

// Extract returns the series at the location raw names.
func (s *Session) Extract(a Array, model ModelID, raw map[string]string) (TimeSeries, error) {
	m, err := s.registry.Lookup(model)
	if err != nil {
		return TimeSeries{}, err
	}
	p, err := m.LocationFields().Map(raw)
	if err != nil {
		return TimeSeries{}, err
	}
	if a == nil || a.Family() != string(model) {
		return TimeSeries{}, arrayMismatch(a, model)
	}
	ts, err := m.Extract(a, p)
	if err != nil {
		return TimeSeries{}, err
	}
	s.log.Debug("Extracted series.", "model", model, "location", p, "periods", ts.Periods(), "layers", ts.Layers())
	return ts, nil
}
