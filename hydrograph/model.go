package hydrograph

import (
	"fmt"
	"sort"

	"github.com/zarladar/interactive-hydrograph/internal/series"
)

// ModelID identifies a model family.
type ModelID string

const (
	// MODFLOW output is a dense HDF5 head array.
	MODFLOW ModelID = "MODFLOW"
	// IWFM output is a legacy text head report.
	IWFM ModelID = "IWFM"
)

// ParseModelID returns the ModelID named by s. Names are case-sensitive.
func ParseModelID(s string) (ModelID, error) {
	switch id := ModelID(s); id {
	case MODFLOW, IWFM:
		return id, nil
	}
	return "", &UnsupportedModelError{Model: s}
}

// TimeSeries is one location's heads over time.
type TimeSeries = series.TimeSeries

// Array is a loaded head array. Family names the model that loaded it.
type Array interface {
	Family() string
}

// Model is one family's loader and extractor.
type Model interface {
	ID() ModelID
	// SizeFields maps the labels Load accepts.
	SizeFields() FieldTable
	// LocationFields maps the labels Extract accepts.
	LocationFields() FieldTable
	Load(path string, p Params) (Array, error)
	Extract(a Array, p Params) (TimeSeries, error)
}

// Registry maps model identifiers to models. It is built once and only
// read afterwards.
type Registry struct {
	models map[ModelID]Model
}

// NewRegistry registers models. A later model replaces an earlier one
// with the same ID.
func NewRegistry(models ...Model) *Registry {
	r := &Registry{models: make(map[ModelID]Model, len(models))}
	for _, m := range models {
		r.models[m.ID()] = m
	}
	return r
}

// DefaultRegistry registers the MODFLOW and IWFM families configured by
// opts. Only the dataset, artifact directory and logger options apply.
func DefaultRegistry(opts ...Option) *Registry {
	return defaultRegistry(newOptions(opts))
}

func defaultRegistry(o *options) *Registry {
	return NewRegistry(
		NewDenseModel(o.headDataset),
		NewLegacyModel(o.artifactDir, o.logger),
	)
}

// Lookup returns the model registered for id.
func (r *Registry) Lookup(id ModelID) (Model, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, &UnsupportedModelError{Model: string(id)}
	}
	return m, nil
}

// Map renames raw with every label model id accepts, size and location
// alike.
func (r *Registry) Map(id ModelID, raw map[string]string) (Params, error) {
	m, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	size, loc := m.SizeFields(), m.LocationFields()
	out := make(Params, len(raw))
	for label, v := range raw {
		k, ok := size.Keyword(label)
		if !ok {
			k, ok = loc.Keyword(label)
		}
		if !ok {
			return nil, &UnknownFieldError{Model: string(id), Label: label}
		}
		out[k] = v
	}
	return out, nil
}

// IDs lists the registered models in sorted order.
func (r *Registry) IDs() []ModelID {
	out := make([]ModelID, 0, len(r.models))
	for id := range r.models {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ints reads each key of p as an integer.
func ints(p Params, keys ...string) ([]int, error) {
	out := make([]int, len(keys))
	for i, k := range keys {
		n, err := p.Int(k)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func arrayMismatch(a Array, id ModelID) error {
	fam := "<nil>"
	if a != nil {
		fam = a.Family()
	}
	return fmt.Errorf("%w: %s array passed to %s", ErrArrayModelMismatch, fam, id)
}
