package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/usecase"
)

func TestStepEdge(t *testing.T) {
	edge := usecase.StepEdge(1800)

	assert.Equal(t, 1.0, edge(0))
	assert.Equal(t, 1.0, edge(1799.9))
	assert.Equal(t, 1.0, edge(1800), "boundary is inclusive")
	assert.Equal(t, 0.0, edge(1800.1))
}

func TestScoringEngine_Score(t *testing.T) {
	engine := usecase.NewScoringEngine()
	surface := rampSurface(100) // 0..9800, (9, 9) недостижима

	pop := population("cr",
		cell(0, 0), // 0
		cell(1, 5), // 1500
		cell(2, 0), // 2000
		cell(3, 6), // 3600
		cell(9, 8), // 9800
		cell(9, 9), // недостижима
	)

	t.Run("reached fraction", func(t *testing.T) {
		assert.InDelta(t, 2.0/6.0, engine.Score(surface, pop, usecase.StepEdge(1800), 1.0), 1e-12)
		assert.InDelta(t, 4.0/6.0, engine.Score(surface, pop, usecase.StepEdge(3600), 1.0), 1e-12)
	})

	t.Run("monotonic in cutoff", func(t *testing.T) {
		cutoffs := []float64{-1, 0, 1, 500, 1500, 1800, 2000, 3599, 3600, 5000, 9800, 1e9}
		prev := -1.0
		for _, c := range cutoffs {
			s := engine.Score(surface, pop, usecase.StepEdge(c), 1.0)
			assert.GreaterOrEqual(t, s, prev, "cutoff %v", c)
			prev = s
		}
	})

	t.Run("weight is a multiplier", func(t *testing.T) {
		full := engine.Score(surface, pop, usecase.StepEdge(3600), 1.0)
		assert.InDelta(t, full*0.5, engine.Score(surface, pop, usecase.StepEdge(3600), 0.5), 1e-12)
		assert.InDelta(t, full*3, engine.Score(surface, pop, usecase.StepEdge(3600), 3), 1e-12)
	})

	t.Run("empty population scores zero", func(t *testing.T) {
		empty := &domain.Population{Key: "em"}
		for _, c := range []float64{0, 1800, 1e9} {
			for _, w := range []float64{0, 1, 2.5} {
				assert.Equal(t, 0.0, engine.Score(surface, empty, usecase.StepEdge(c), w))
			}
		}
		assert.Equal(t, 0.0, engine.Score(surface, nil, usecase.StepEdge(1800), 1))
	})

	t.Run("unreachable items are never reached", func(t *testing.T) {
		unreachable := population("pi", cell(9, 9), domain.Coordinate{Lat: 50, Lon: 5})
		assert.Equal(t, 0.0, engine.Score(surface, unreachable, usecase.StepEdge(1e12), 1))
	})

	t.Run("deterministic", func(t *testing.T) {
		first := engine.Score(surface, pop, usecase.StepEdge(2500), 1.0)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, engine.Score(surface, pop, usecase.StepEdge(2500), 1.0))
		}
	})
}

func TestScoringEngine_ScorePopulation(t *testing.T) {
	engine := usecase.NewScoringEngine()

	t.Run("time based bands", func(t *testing.T) {
		// все объекты между двумя порогами
		surface := uniformSurface(2500)
		cr := population("cr", cell(0, 0), cell(4, 4), cell(8, 2))

		first := engine.ScorePopulation(surface, cr, domain.BandFirst, 1800, 1.0)
		second := engine.ScorePopulation(surface, cr, domain.BandSecond, 3600, 1.0)

		assert.Equal(t, 0.0, first.Score)
		assert.Equal(t, 0, first.Reached)
		assert.Equal(t, 3, first.Total)
		assert.Equal(t, "cr1", first.ElementID())

		assert.Equal(t, 1.0, second.Score)
		assert.Equal(t, 3, second.Reached)
		assert.Equal(t, 2500.0, second.MeanValue)
		assert.Equal(t, "cr2", second.ElementID())
	})

	t.Run("values below the first cutoff reach both bands", func(t *testing.T) {
		surface := uniformSurface(1000)
		cr := population("cr", cell(0, 0), cell(4, 4))

		assert.Equal(t, 1.0, engine.ScorePopulation(surface, cr, domain.BandFirst, 1800, 1.0).Score)
		assert.Equal(t, 1.0, engine.ScorePopulation(surface, cr, domain.BandSecond, 3600, 1.0).Score)
	})

	t.Run("mean of reached values", func(t *testing.T) {
		surface := rampSurface(100)
		pop := population("bi", cell(0, 1), cell(0, 3), cell(5, 0))

		result := engine.ScorePopulation(surface, pop, domain.BandFirst, 1000, 1.0)
		assert.Equal(t, 2, result.Reached)
		assert.InDelta(t, 200.0, result.MeanValue, 1e-9)
	})

	t.Run("weight scales the score like Score does", func(t *testing.T) {
		surface := rampSurface(100)
		pop := population("bi", cell(0, 1), cell(0, 3), cell(5, 0), cell(9, 0))

		result := engine.ScorePopulation(surface, pop, domain.BandFirst, 1000, 0.5)
		assert.InDelta(t, 0.25, result.Score, 1e-9)
		assert.Equal(t, engine.Score(surface, pop, usecase.StepEdge(1000), 0.5), result.Score)
		assert.Equal(t, 2, result.Reached)
	})
}
