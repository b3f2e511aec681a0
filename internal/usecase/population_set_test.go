package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/domain"
	apperrors "github.com/accessibility-microservice/internal/pkg/errors"
	"github.com/accessibility-microservice/internal/usecase"
)

func specFor(key string) domain.PopulationSpec {
	return domain.PopulationSpec{Key: key, Name: key, Color: "#0C0", Source: key + ".csv"}
}

func TestPopulationSet_Register(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("loaded populations are returned in registration order", func(t *testing.T) {
		source := &MockPopulationSource{}
		release := make(chan struct{})

		cr := population("cr", cell(0, 0))
		bi := population("bi", cell(1, 1))

		source.On("Fetch", mock.Anything, specFor("cr")).
			Run(func(args mock.Arguments) { <-release }).
			Return(cr, nil)
		source.On("Fetch", mock.Anything, specFor("bi")).Return(bi, nil)

		set := usecase.NewPopulationSet(source, nil, logger)

		crLoad, err := set.Register(ctx, specFor("cr"))
		require.NoError(t, err)
		biLoad, err := set.Register(ctx, specFor("bi"))
		require.NoError(t, err)

		_, err = biLoad.Wait(ctx)
		require.NoError(t, err)

		// cr еще загружается и не участвует в оценке
		loaded := set.Loaded()
		require.Len(t, loaded, 1)
		assert.Equal(t, "bi", loaded[0].Key)

		close(release)
		_, err = crLoad.Wait(ctx)
		require.NoError(t, err)

		loaded = set.Loaded()
		require.Len(t, loaded, 2)
		assert.Equal(t, "cr", loaded[0].Key)
		assert.Equal(t, "bi", loaded[1].Key)

		source.AssertExpectations(t)
	})

	t.Run("failed load does not affect other categories", func(t *testing.T) {
		source := &MockPopulationSource{}
		source.On("Fetch", mock.Anything, specFor("cr")).Return(nil, errors.New("connection refused"))
		source.On("Fetch", mock.Anything, specFor("em")).Return(population("em", cell(0, 0)), nil)

		set := usecase.NewPopulationSet(source, nil, logger)

		crLoad, err := set.Register(ctx, specFor("cr"))
		require.NoError(t, err)
		emLoad, err := set.Register(ctx, specFor("em"))
		require.NoError(t, err)

		pop, err := crLoad.Wait(ctx)
		assert.Nil(t, pop)
		assert.ErrorIs(t, err, apperrors.ErrPopulationLoad)
		assert.Contains(t, err.Error(), "connection refused")

		_, err = emLoad.Wait(ctx)
		require.NoError(t, err)

		loaded := set.Loaded()
		require.Len(t, loaded, 1)
		assert.Equal(t, "em", loaded[0].Key)

		statuses := set.Statuses()
		require.Len(t, statuses, 2)
		assert.Equal(t, domain.PopulationFailed, statuses[0].State)
		assert.NotEmpty(t, statuses[0].Error)
		assert.Equal(t, domain.PopulationLoaded, statuses[1].State)
		assert.Equal(t, 1, statuses[1].Size)
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		source := &MockPopulationSource{}
		source.On("Fetch", mock.Anything, mock.Anything).Return(population("cr"), nil)

		set := usecase.NewPopulationSet(source, nil, logger)

		_, err := set.Register(ctx, specFor("cr"))
		require.NoError(t, err)
		_, err = set.Register(ctx, specFor("cr"))
		assert.Error(t, err)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		set := usecase.NewPopulationSet(&MockPopulationSource{}, nil, logger)

		_, err := set.Register(ctx, domain.PopulationSpec{Source: "x.csv"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("observer sees the layer once loaded", func(t *testing.T) {
		source := &MockPopulationSource{}
		source.On("Fetch", mock.Anything, specFor("ci")).Return(population("ci", cell(2, 2)), nil)

		state := usecase.NewPresentationState()
		set := usecase.NewPopulationSet(source, state, logger)

		load, err := set.Register(ctx, specFor("ci"))
		require.NoError(t, err)
		_, err = load.Wait(ctx)
		require.NoError(t, err)

		layer, ok := state.Layer("ci")
		require.True(t, ok)
		assert.Equal(t, 1, layer.Size())
	})

	t.Run("wait honours context", func(t *testing.T) {
		source := &MockPopulationSource{}
		release := make(chan struct{})
		defer close(release)
		source.On("Fetch", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { <-release }).
			Return(population("ec"), nil)

		set := usecase.NewPopulationSet(source, nil, logger)
		load, err := set.Register(ctx, specFor("ec"))
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err = load.Wait(waitCtx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		select {
		case <-load.Done():
			t.Fatal("load must still be pending")
		default:
		}
	})
}

func TestPopulationSet_Retry(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("failed category is reloaded", func(t *testing.T) {
		source := &MockPopulationSource{}
		source.On("Fetch", mock.Anything, specFor("pi")).Return(nil, errors.New("timeout")).Once()
		source.On("Fetch", mock.Anything, specFor("pi")).Return(population("pi", cell(0, 0), cell(1, 1)), nil).Once()

		set := usecase.NewPopulationSet(source, nil, logger)

		load, err := set.Register(ctx, specFor("pi"))
		require.NoError(t, err)
		_, err = load.Wait(ctx)
		require.Error(t, err)

		_, err = set.Get("pi")
		assert.ErrorIs(t, err, apperrors.ErrPopulationLoad)

		retry, err := set.Retry(ctx, "pi")
		require.NoError(t, err)
		pop, err := retry.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, pop.Size())

		got, err := set.Get("pi")
		require.NoError(t, err)
		assert.Same(t, pop, got)
		assert.Len(t, set.Loaded(), 1)

		source.AssertNumberOfCalls(t, "Fetch", 2)
	})

	t.Run("loaded category cannot be retried", func(t *testing.T) {
		source := &MockPopulationSource{}
		source.On("Fetch", mock.Anything, specFor("bi")).Return(population("bi"), nil)

		set := usecase.NewPopulationSet(source, nil, logger)
		load, err := set.Register(ctx, specFor("bi"))
		require.NoError(t, err)
		_, err = load.Wait(ctx)
		require.NoError(t, err)

		_, err = set.Retry(ctx, "bi")
		assert.ErrorIs(t, err, apperrors.ErrPopulationNotFailed)
	})

	t.Run("unknown category", func(t *testing.T) {
		set := usecase.NewPopulationSet(&MockPopulationSource{}, nil, logger)

		_, err := set.Retry(ctx, "zz")
		assert.ErrorIs(t, err, apperrors.ErrPopulationNotFound)

		_, err = set.Get("zz")
		assert.ErrorIs(t, err, apperrors.ErrPopulationNotFound)
	})
}
