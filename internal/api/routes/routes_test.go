package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selenex/internal/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Server.Mode = gin.TestMode
	return SetupRoutes(cfg)
}

func TestRoutesRegistered(t *testing.T) {
	router := newTestRouter(t)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/health",
		"POST /api/v1/scripts/generate",
		"GET /api/v1/ws/recording",
		"POST /api/v1/recording/start",
		"POST /api/v1/recording/save",
		"GET /api/v1/recordings",
		"POST /api/v1/recordings/:id/generate",
		"GET /api/v1/scripts/:id/download",
		"DELETE /api/v1/scripts/:id",
		"GET /metrics",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestHealthAndGenerateArePublic(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/scripts/generate", strings.NewReader(`[]`)))
	assert.Contains(t, w.Body.String(), `"code":200`)
	assert.Contains(t, w.Body.String(), "driver.quit()")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "selenex_scripts_generated_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scripts", nil))
	assert.Contains(t, w.Body.String(), `"code":401`)
}
