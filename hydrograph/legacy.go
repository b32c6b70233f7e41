package hydrograph

import (
	"log/slog"
	"sync"

	"github.com/zarladar/interactive-hydrograph/internal/iwfm"
)

// LegacyModel loads IWFM text head reports through a converted artifact.
type LegacyModel struct {
	dir string
	log *slog.Logger

	once sync.Once
	conv *iwfm.Converter
	err  error
}

// NewLegacyModel keeps artifacts in dir. The directory is created on the
// first load.
func NewLegacyModel(dir string, log *slog.Logger) *LegacyModel {
	if log == nil {
		log = discard
	}
	return &LegacyModel{dir: dir, log: log}
}

var (
	legacySize = NewFieldTable(IWFM, map[string]string{
		"Model Elements": "elements",
		"Model Layers":   "layers",
	})
	legacyLocation = NewFieldTable(IWFM, map[string]string{
		"Element": "element",
	})
)

func (m *LegacyModel) ID() ModelID                { return IWFM }
func (m *LegacyModel) SizeFields() FieldTable     { return legacySize }
func (m *LegacyModel) LocationFields() FieldTable { return legacyLocation }

func (m *LegacyModel) converter() (*iwfm.Converter, error) {
	m.once.Do(func() {
		m.conv, m.err = iwfm.NewConverter(m.dir)
	})
	return m.conv, m.err
}

// Load reads the elements and layers params and returns a *iwfm.Table.
func (m *LegacyModel) Load(path string, p Params) (Array, error) {
	n, err := ints(p, "elements", "layers")
	if err != nil {
		return nil, err
	}
	conv, err := m.converter()
	if err != nil {
		return nil, err
	}
	t, a, err := conv.Load(path, iwfm.Shape{Elements: n[0], Layers: n[1]}, nil)
	if a.Path != "" {
		if a.Reused {
			m.log.Debug("Reusing converted artifact.", "source", path, "artifact", a.Path)
		} else {
			m.log.Info("Converted head report.", "source", path, "artifact", a.Path,
				"lines", a.Stats.Lines, "steps", a.Stats.Steps, "records", a.Stats.Records, "comments", a.Stats.Comments)
		}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Extract reads the 1-based element param.
func (m *LegacyModel) Extract(a Array, p Params) (TimeSeries, error) {
	t, ok := a.(*iwfm.Table)
	if !ok {
		return TimeSeries{}, arrayMismatch(a, IWFM)
	}
	e, err := p.Int("element")
	if err != nil {
		return TimeSeries{}, err
	}
	return t.Extract(e)
}
