package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaiaterm/internal/services"
	"gaiaterm/internal/storage"
)

func TestHealthHandler(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := services.NewRedisService(mr.Addr(), testLogger())
	t.Cleanup(func() { _ = cache.Close() })

	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	handler := NewHealthHandler(cache, store, testLogger())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "gaiaterm-api", resp.Service)
	assert.Equal(t, "healthy", resp.Components["cache"])
	assert.Equal(t, "healthy", resp.Components["storage"])

	// Losing the cache degrades the service but keeps the endpoint up.
	mr.Close()
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["cache"])
	assert.Equal(t, "healthy", resp.Components["storage"])
}
