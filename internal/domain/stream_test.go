package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshRequestEvent_Decode(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		expected    *ParametersPatch
		description string
	}{
		{
			name:        "without parameters",
			payload:     `{"request_id":"5d3f1a52-8a8e-4c4b-9f39-0f1c9d1e2b3a"}`,
			expected:    nil,
			description: "Should trigger with current parameters",
		},
		{
			name:    "with origin and metric",
			payload: `{"request_id":"5d3f1a52-8a8e-4c4b-9f39-0f1c9d1e2b3a","parameters":{"origin":{"lat":43.61,"lon":1.45},"metric_type":"WALK_DISTANCE","max_walk_distance":500}}`,
			expected: &ParametersPatch{
				Origin:          &Coordinate{Lat: 43.61, Lon: 1.45},
				MetricType:      "WALK_DISTANCE",
				MaxWalkDistance: 500,
			},
			description: "Should decode partial parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var event RefreshRequestEvent
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &event))
			assert.Equal(t, uuid.MustParse("5d3f1a52-8a8e-4c4b-9f39-0f1c9d1e2b3a"), event.RequestID)
			if diff := cmp.Diff(tt.expected, event.Parameters); diff != "" {
				t.Errorf("%s (-want +got):\n%s", tt.description, diff)
			}
		})
	}
}

func TestParametersPatch_Apply(t *testing.T) {
	base := RequestParameters{
		Origin:          Coordinate{Lat: 43.6, Lon: 1.4},
		MetricType:      MetricTravelTime,
		MaxWalkDistance: 1000,
		MaxTimeSec:      3600,
		RouterID:        "toulouse",
		Modes:           "WALK,TRANSIT",
		WalkSpeed:       1.33,
	}
	departure := time.Date(2014, 3, 12, 8, 0, 0, 0, time.UTC)

	got := ParametersPatch{
		MetricType:    "boardings",
		WalkSpeed:     1.1,
		DepartureTime: &departure,
	}.Apply(base)

	want := base
	want.MetricType = MetricBoardings
	want.WalkSpeed = 1.1
	want.DepartureTime = departure

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, base, ParametersPatch{}.Apply(base), "empty patch changes nothing")
}

func TestPresentation_Elements(t *testing.T) {
	p := &Presentation{
		Labels: [2]string{"<400m", "<800m"},
		Scores: []ScoreResult{
			{Category: "cr", Band: BandFirst, Score: 0.25},
			{Category: "cr", Band: BandSecond, Score: 1},
			{Category: "pi", Band: BandFirst, Score: 0},
		},
	}

	want := map[string]string{
		"cutoff1": "<400m",
		"cutoff2": "<800m",
		"cr1":     "0.25",
		"cr2":     "1",
		"pi1":     "0",
	}
	if diff := cmp.Diff(want, p.Elements()); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}

	s, ok := p.Score("cr", BandSecond)
	assert.True(t, ok)
	assert.Equal(t, 1.0, s.Score)

	_, ok = p.Score("bi", BandFirst)
	assert.False(t, ok)
}

func TestPopulationSpec_WithDefaults(t *testing.T) {
	spec := PopulationSpec{Key: "cr", Source: "Creches.csv", NameColumn: "NOM"}.WithDefaults()

	assert.Equal(t, DefaultLonColumn, spec.LonColumn)
	assert.Equal(t, DefaultLatColumn, spec.LatColumn)
	assert.Equal(t, DefaultDelimiter, spec.Delimiter)
	assert.Equal(t, DefaultEncoding, spec.Encoding)
	assert.Equal(t, "NOM", spec.NameColumn)

	var nilPop *Population
	assert.Equal(t, 0, nilPop.Size())
}
