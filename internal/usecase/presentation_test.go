package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	"github.com/accessibility-microservice/internal/usecase"
)

func testPresentation(cycle uint64) *domain.Presentation {
	return &domain.Presentation{
		ID:     uuid.New(),
		Cycle:  cycle,
		Legend: domain.Legend{Max: 3600, MetricType: domain.MetricTravelTime},
		Labels: [2]string{"<30mn", "<1h"},
		Scores: []domain.ScoreResult{
			{Category: "cr", Band: domain.BandFirst, Cutoff: 1800, Score: 0.25},
			{Category: "cr", Band: domain.BandSecond, Cutoff: 3600, Score: 0.75},
		},
		CompletedAt: time.Now().UTC(),
	}
}

func TestPresentationState(t *testing.T) {
	ctx := context.Background()

	t.Run("older cycle does not overwrite newer result", func(t *testing.T) {
		state := usecase.NewPresentationState()
		newer := testPresentation(5)
		older := testPresentation(4)

		require.NoError(t, state.Present(ctx, uniformSurface(1), newer))
		require.NoError(t, state.Present(ctx, uniformSurface(2), older))

		current, _ := state.Current()
		assert.Same(t, newer, current)
	})

	t.Run("success clears the last failure", func(t *testing.T) {
		state := usecase.NewPresentationState()
		state.NotifyFailure(ctx, errors.New("surface unavailable"))

		msg, _ := state.LastFailure()
		assert.Equal(t, "surface unavailable", msg)

		require.NoError(t, state.Present(ctx, uniformSurface(1), testPresentation(1)))
		msg, at := state.LastFailure()
		assert.Empty(t, msg)
		assert.True(t, at.IsZero())
	})

	t.Run("layers keep first appearance order", func(t *testing.T) {
		state := usecase.NewPresentationState()
		state.ShowPopulation(ctx, population("cr", cell(0, 0)))
		state.ShowPopulation(ctx, population("bi"))
		state.ShowPopulation(ctx, population("cr", cell(0, 0), cell(1, 1)))
		state.ShowPopulation(ctx, nil)

		layers := state.Layers()
		require.Len(t, layers, 2)
		assert.Equal(t, "cr", layers[0].Key)
		assert.Equal(t, 2, layers[0].Size())
		assert.Equal(t, "bi", layers[1].Key)
	})
}

func TestPresentationFanout(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards every call to all sinks", func(t *testing.T) {
		a, b := &MockPresentationSync{}, &MockPresentationSync{}
		p := testPresentation(1)
		surface := uniformSurface(1)
		pop := population("cr")
		failure := errors.New("boom")

		for _, s := range []*MockPresentationSync{a, b} {
			s.On("ShowPopulation", ctx, pop).Once()
			s.On("SetRefreshEnabled", false).Once()
			s.On("Present", mock.Anything, surface, p).Return(nil).Once()
			s.On("NotifyFailure", ctx, failure).Once()
		}

		fanout := usecase.NewPresentationFanout(a, b)
		fanout.ShowPopulation(ctx, pop)
		fanout.SetRefreshEnabled(false)
		require.NoError(t, fanout.Present(ctx, surface, p))
		fanout.NotifyFailure(ctx, failure)

		a.AssertExpectations(t)
		b.AssertExpectations(t)
	})

	t.Run("returns sink error", func(t *testing.T) {
		state := usecase.NewPresentationState()
		failing := &MockPresentationSync{}
		failing.On("Present", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		fanout := usecase.NewPresentationFanout(state, failing)
		err := fanout.Present(ctx, uniformSurface(1), testPresentation(1))
		assert.EqualError(t, err, "redis down")

		// приемник в памяти все равно получил результат
		current, _ := state.Current()
		assert.NotNil(t, current)
	})
}

func TestSnapshotPublisher(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("caches, streams and stores the presentation", func(t *testing.T) {
		cache := &MockCacheRepository{}
		streams := &MockStreamRepository{}
		history := &MockHistoryRepository{}
		p := testPresentation(3)

		cache.On("SetPresentation", mock.Anything, p, time.Hour).Return(nil).Once()
		streams.On("PublishToStream", mock.Anything, domain.StreamPresented, p).Return(nil).Once()
		history.On("SavePresentation", mock.Anything, p).Return(nil).Once()

		publisher := usecase.NewSnapshotPublisher(cache, streams, history, time.Hour, logger)
		require.NoError(t, publisher.Present(ctx, uniformSurface(1), p))

		cache.AssertExpectations(t)
		streams.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("nil dependencies are skipped", func(t *testing.T) {
		publisher := usecase.NewSnapshotPublisher(nil, nil, nil, time.Hour, logger)
		assert.NoError(t, publisher.Present(ctx, nil, testPresentation(1)))
		publisher.NotifyFailure(ctx, errors.New("ignored"))
	})

	t.Run("history failure is reported", func(t *testing.T) {
		history := &MockHistoryRepository{}
		history.On("SavePresentation", mock.Anything, mock.Anything).Return(errors.New("db down"))

		publisher := usecase.NewSnapshotPublisher(nil, nil, history, time.Hour, logger)
		err := publisher.Present(ctx, nil, testPresentation(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("failure event is published", func(t *testing.T) {
		streams := &MockStreamRepository{}
		streams.On("PublishToStream", ctx, domain.StreamRefreshFailed, mock.MatchedBy(func(e domain.RefreshFailedEvent) bool {
			return e.Error == "surface unavailable" && !e.FailedAt.IsZero()
		})).Return(nil).Once()

		publisher := usecase.NewSnapshotPublisher(nil, streams, nil, time.Hour, logger)
		publisher.NotifyFailure(ctx, errors.New("surface unavailable"))

		streams.AssertExpectations(t)
	})
}

func TestParameterStore_Update(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		store := usecase.NewParameterStore(defaultParams())

		updated, err := store.Update(domain.ParametersPatch{MaxTimeSec: 1200, Modes: "WALK"})
		require.NoError(t, err)

		expected := defaultParams()
		expected.MaxTimeSec = 1200
		expected.Modes = "WALK"
		assert.Equal(t, expected, updated)
		assert.Equal(t, expected, store.Snapshot())
	})

	t.Run("invalid origin is rejected and state unchanged", func(t *testing.T) {
		store := usecase.NewParameterStore(defaultParams())

		_, err := store.Update(domain.ParametersPatch{Origin: &domain.Coordinate{Lat: 10, Lon: 200}})
		assert.Error(t, err)
		assert.Equal(t, defaultParams(), store.Snapshot())
	})

	t.Run("unknown metric falls back to travel time", func(t *testing.T) {
		params := defaultParams()
		params.MetricType = domain.MetricBoardings
		store := usecase.NewParameterStore(params)

		updated, err := store.Update(domain.ParametersPatch{MetricType: "isochrone"})
		require.NoError(t, err)
		assert.Equal(t, domain.MetricTravelTime, updated.MetricType)
	})
}
