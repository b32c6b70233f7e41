package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayer(t *testing.T) {
	s := TimeSeries{
		X: []int{0, 1, 2},
		Y: [][]float64{{1, 10}, {2, 20}, {3, 30}},
	}
	assert.Equal(t, 3, s.Periods())
	assert.Equal(t, 2, s.Layers())
	assert.Equal(t, []float64{10, 20, 30}, s.Layer(1))
	assert.Nil(t, s.Layer(2))
	assert.Nil(t, s.Layer(-1))
	assert.Equal(t, 0, TimeSeries{}.Layers())
}
