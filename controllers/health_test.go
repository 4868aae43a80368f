package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Any("/healthz", env.HealthCheck)

	t.Run("ok on plain GET", func(t *testing.T) {
		w := get(router, "/healthz")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	})

	t.Run("method not allowed on POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("bad request on GET with body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", strings.NewReader("{}"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unavailable when database is down", func(t *testing.T) {
		sqlDB, err := env.DB.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		w := get(router, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
