package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"userhub/api/internal/config"
	"userhub/api/internal/testutil"
)

func TestHealthHandler_MissingBackendsReported(t *testing.T) {
	h := HandlerSet{
		log: testutil.Logger(),
		cfg: &config.AppConfig{Environment: "test"},
	}

	router := gin.New()
	router.GET("/healthz", h.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"status":"degraded"`)
	assert.Contains(t, body, `"database":"error"`)
	assert.Contains(t, body, `"cache":"error"`)
	assert.Contains(t, body, `"environment":"test"`)
	assert.Contains(t, body, `"uptime"`)
}
