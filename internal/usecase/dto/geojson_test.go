package dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessibility-microservice/internal/domain"
)

func TestPopulationLayer(t *testing.T) {
	pop := &domain.Population{
		Key:   "pi",
		Name:  "Piscines",
		Color: "#00F",
		Items: []domain.PopulationItem{
			{Location: domain.Coordinate{Lat: 43.25, Lon: 1.25}, Name: "Nakache"},
			{Location: domain.Coordinate{Lat: 43.75, Lon: 1.75}, Name: "Castex"},
		},
	}
	origin := domain.Coordinate{Lat: 43.25, Lon: 1.25}
	surface, err := domain.NewGridSurface(domain.Coordinate{Lat: 43, Lon: 1}, 0.5, 0.5, 2, 2, []float64{900, 0, 0, math.NaN()})
	require.NoError(t, err)
	legend := domain.Legend{Max: 3600, MetricType: domain.MetricTravelTime}

	fc := PopulationLayer(pop, origin, surface, legend)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, "pi-0", first.ID)
	assert.Equal(t, "Nakache", first.Properties["name"])
	assert.Equal(t, 900.0, first.Properties["value"])
	assert.Equal(t, legend.ColorAt(900), first.Properties["value_color"])
	assert.InDelta(t, 0.0, first.Properties["distance_km"], 1e-9)

	second := fc.Features[1]
	_, hasValue := second.Properties["value"]
	assert.False(t, hasValue)
	assert.Equal(t, domain.UnreachableColor, second.Properties["value_color"])
	assert.Greater(t, second.Properties["distance_km"], 50.0)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	assert.Equal(t, "Point", decoded.Features[0].Geometry.Type)
	assert.Equal(t, []float64{1.25, 43.25}, decoded.Features[0].Geometry.Coordinates)
}

func TestPopulationLayer_WithoutSurface(t *testing.T) {
	pop := &domain.Population{Key: "cr", Items: []domain.PopulationItem{{Location: domain.Coordinate{Lat: 43.6, Lon: 1.4}}}}

	fc := PopulationLayer(pop, domain.Coordinate{Lat: 43.6, Lon: 1.4}, nil, domain.Legend{})
	require.Len(t, fc.Features, 1)
	_, hasColor := fc.Features[0].Properties["value_color"]
	assert.False(t, hasColor)
}

func TestParametersRequest_ToPatch(t *testing.T) {
	req := ParametersRequest{Origin: &Point{Lat: 43.6, Lon: 1.44}, MaxTimeSec: 1800}
	patch := req.ToPatch()

	require.NotNil(t, patch.Origin)
	assert.Equal(t, domain.Coordinate{Lat: 43.6, Lon: 1.44}, *patch.Origin)
	assert.Equal(t, 1800, patch.MaxTimeSec)
	assert.False(t, req.IsEmpty())
	assert.True(t, ParametersRequest{}.IsEmpty())
}
