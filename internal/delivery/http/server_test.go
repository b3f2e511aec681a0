package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/config"
)

func newTestServer(checks map[string]HealthCheck) *Server {
	// обработчики не нужны: проверяются только служебные маршруты
	return NewServer(&config.Config{}, zap.NewNop(), nil, nil, nil, checks)
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestServer_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return fmt.Errorf("connection refused") }

	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(map[string]HealthCheck{"redis": ok})
		resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, map[string]interface{}{"redis": "ok"}, body["dependencies"])
	})

	t.Run("degraded", func(t *testing.T) {
		s := newTestServer(map[string]HealthCheck{"redis": ok, "postgres": down})
		resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "degraded", body["status"])
		deps := body["dependencies"].(map[string]interface{})
		assert.Equal(t, "connection refused", deps["postgres"])
		assert.Equal(t, "ok", deps["redis"])
	})
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(nil)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/isochrones", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]interface{})["code"])
}

func TestServer_HistoryRouteRequiresDatabase(t *testing.T) {
	s := newTestServer(nil)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
