package filter

import (
	"fmt"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

type stage struct {
	// index is the filter's position in the pipeline message, which is
	// what chunk filter masks refer to.
	index int
	f     Filter
}

// Pipeline applies a dataset's filters to its chunks. A nil Pipeline
// applies nothing.
type Pipeline struct {
	stages []stage
}

// NewPipeline builds the pipeline for fp, which may be nil.
func NewPipeline(fp *message.FilterPipeline, elemSize int) (*Pipeline, error) {
	p := &Pipeline{}
	if fp == nil {
		return p, nil
	}
	for i, spec := range fp.Filters {
		f, err := New(spec, elemSize)
		if err != nil {
			return nil, err
		}
		if f != nil {
			p.stages = append(p.stages, stage{index: i, f: f})
		}
	}
	return p, nil
}

// Empty reports whether the pipeline has nothing to apply.
func (p *Pipeline) Empty() bool { return p == nil || len(p.stages) == 0 }

// Decode undoes the filters in reverse order. Bit i of mask set means
// filter i was not applied to this chunk.
func (p *Pipeline) Decode(data []byte, mask uint32) ([]byte, error) {
	if p.Empty() {
		return data, nil
	}
	for i := len(p.stages) - 1; i >= 0; i-- {
		s := p.stages[i]
		if mask&(1<<uint(s.index)) != 0 {
			continue
		}
		var err error
		if data, err = s.f.Decode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", Name(s.f.ID()), err)
		}
	}
	return data, nil
}

// Encode applies the filters in pipeline order.
func (p *Pipeline) Encode(data []byte) ([]byte, error) {
	if p.Empty() {
		return data, nil
	}
	for _, s := range p.stages {
		var err error
		if data, err = s.f.Encode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", Name(s.f.ID()), err)
		}
	}
	return data, nil
}
