package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/biotools-linter/linter-api/pkg/api_client/helper/problem"
	"github.com/biotools-linter/linter-api/pkg/api_client/metrics"
)

// GlobalLimiter admits at most one request per interval across all clients.
// Rejection is immediate; requests are never queued.
type GlobalLimiter struct {
	limiter    *rate.Limiter
	retryAfter string
}

func NewGlobalLimiter(interval time.Duration) *GlobalLimiter {
	secs := int(math.Ceil(interval.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return &GlobalLimiter{
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		retryAfter: strconv.Itoa(secs),
	}
}

// Allow reports whether a request may proceed now.
func (l *GlobalLimiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns a middleware sharing this limiter. endpoint only labels metrics.
func (l *GlobalLimiter) Limit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			metrics.RateLimitHits.WithLabelValues(endpoint).Inc()
			c.Header("Retry-After", l.retryAfter)
			c.Header("Content-Type", "application/problem+json")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, problem.NewTooManyRequests("Rate limit exceeded, try again later"))
			return
		}
		c.Next()
	}
}
