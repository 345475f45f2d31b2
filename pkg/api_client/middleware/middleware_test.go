package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGlobalLimiterSharedAcrossRoutes(t *testing.T) {
	lim := NewGlobalLimiter(time.Hour)
	r := gin.New()
	r.POST("/lint", lim.Limit("lint"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/download", lim.Limit("download"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/lint", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
	assert.Contains(t, w.Body.String(), `"status":429`)
}

func TestGlobalLimiterRefills(t *testing.T) {
	lim := NewGlobalLimiter(20 * time.Millisecond)
	assert.True(t, lim.Allow())
	assert.False(t, lim.Allow())
	time.Sleep(40 * time.Millisecond)
	assert.True(t, lim.Allow())
}

func TestGlobalLimiterRetryAfterRoundsUp(t *testing.T) {
	assert.Equal(t, "2", NewGlobalLimiter(1500*time.Millisecond).retryAfter)
	assert.Equal(t, "1", NewGlobalLimiter(10*time.Millisecond).retryAfter)
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		trust  bool
		header string
		want   string
	}{
		{"header trusted", true, "203.0.113.7", "203.0.113.7"},
		{"header ignored", false, "203.0.113.7", "192.0.2.1"},
		{"no header", true, "", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RealIP(tt.trust))
			var got string
			r.GET("/", func(c *gin.Context) { got = ClientIP(c) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:4711"
			if tt.header != "" {
				req.Header.Set("X-Real-IP", tt.header)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger(zerolog.Nop()), Metrics())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
