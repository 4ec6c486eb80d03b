package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalpoint/backend/internal/adapters/providers/ai"
	"github.com/vitalpoint/backend/internal/application/services"
	"github.com/vitalpoint/backend/internal/domain/providers"
)

func newProviderServer(t *testing.T, dispatcher *services.Dispatcher) *httptest.Server {
	t.Helper()

	handler := NewProviderHandler(dispatcher)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/providers", handler.ListProviders)
	mux.HandleFunc("GET /api/providers/health", handler.ProvidersHealth)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListProviders(t *testing.T) {
	dispatcher := services.NewDispatcher()
	require.NoError(t, dispatcher.Register(providers.ProviderDescriptor{
		Name:         "mock",
		Priority:     10,
		Active:       true,
		RateLimitRPM: 60,
	}, ai.NewMockProvider()))

	server := newProviderServer(t, dispatcher)

	resp, err := http.Get(server.URL + "/api/providers")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Providers []map[string]interface{} `json:"providers"`
		Count     int                      `json:"count"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "mock", body.Providers[0]["name"])
	assert.Equal(t, float64(10), body.Providers[0]["priority"])
	assert.Equal(t, true, body.Providers[0]["active"])
	assert.Equal(t, float64(60), body.Providers[0]["rate_limit_rpm"])
}

func TestProvidersHealth(t *testing.T) {
	dispatcher := services.NewDispatcher()
	require.NoError(t, dispatcher.Register(providers.ProviderDescriptor{
		Name:     "mock",
		Priority: 10,
		Active:   true,
	}, ai.NewMockProvider()))

	server := newProviderServer(t, dispatcher)

	resp, err := http.Get(server.URL + "/api/providers/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["active_providers"])
}

func TestProvidersHealth_Degraded(t *testing.T) {
	server := newProviderServer(t, services.NewDispatcher())

	resp, err := http.Get(server.URL + "/api/providers/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "degraded", body["status"])
}
