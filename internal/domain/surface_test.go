package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridSurface(t *testing.T) {
	sw := Coordinate{Lat: 43, Lon: 1}

	_, err := NewGridSurface(sw, 0.1, 0.1, 0, 2, nil)
	assert.Error(t, err)

	_, err = NewGridSurface(sw, 0, 0.1, 1, 1, []float64{1})
	assert.Error(t, err)

	_, err = NewGridSurface(sw, 0.1, 0.1, 2, 2, []float64{1, 2, 3})
	assert.Error(t, err)

	g, err := NewGridSurface(sw, 0.1, 0.1, 2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{MinLat: 43, MinLon: 1, MaxLat: 43.2, MaxLon: 1.2}, roundBox(g.Bounds()))
}

func TestGridSurface_Value(t *testing.T) {
	// строка 0 - юг, в строке с запада на восток
	g, err := NewGridSurface(Coordinate{Lat: 43, Lon: 1}, 0.5, 0.5, 2, 2, []float64{10, math.NaN(), 30, 40})
	require.NoError(t, err)

	tests := []struct {
		name  string
		point Coordinate
		value float64
		ok    bool
	}{
		{"south west cell", Coordinate{Lat: 43.1, Lon: 1.1}, 10, true},
		{"unreachable cell", Coordinate{Lat: 43.1, Lon: 1.7}, 0, false},
		{"north west cell", Coordinate{Lat: 43.9, Lon: 1.2}, 30, true},
		{"north east cell", Coordinate{Lat: 43.6, Lon: 1.6}, 40, true},
		{"south west corner belongs to grid", Coordinate{Lat: 43, Lon: 1}, 10, true},
		{"north east corner belongs to grid", Coordinate{Lat: 44, Lon: 2}, 40, true},
		{"north edge", Coordinate{Lat: 44, Lon: 1.2}, 30, true},
		{"east edge of unreachable cell", Coordinate{Lat: 43.3, Lon: 2}, 0, false},
		{"north of grid", Coordinate{Lat: 44.01, Lon: 1.2}, 0, false},
		{"west of grid", Coordinate{Lat: 43.2, Lon: 0.99}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := g.Value(tt.point)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.value, v)
		})
	}

	assert.Equal(t, 3, g.ReachableCells())
}

func TestBoundingBox_Contains(t *testing.T) {
	box := BoundingBox{MinLat: 43, MinLon: 1, MaxLat: 44, MaxLon: 2}

	assert.True(t, box.Contains(Coordinate{Lat: 43.5, Lon: 1.5}))
	assert.True(t, box.Contains(Coordinate{Lat: 43, Lon: 2}))
	assert.False(t, box.Contains(Coordinate{Lat: 42.9, Lon: 1.5}))
}

func roundBox(b BoundingBox) BoundingBox {
	r := func(v float64) float64 { return math.Round(v*1e9) / 1e9 }
	return BoundingBox{MinLat: r(b.MinLat), MinLon: r(b.MinLon), MaxLat: r(b.MaxLat), MaxLon: r(b.MaxLon)}
}
