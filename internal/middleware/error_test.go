package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(), Recovery())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Внутренняя ошибка сервера"}`, w.Body.String())
}

func TestMetricsPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiterWithoutRedis(t *testing.T) {
	limiter := NewRecipeCreationRateLimiter(nil, 5)
	require.False(t, limiter.Enabled())

	var nilLimiter *RateLimiter
	assert.False(t, nilLimiter.Enabled())

	r := gin.New()
	r.POST("/", nilLimiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
