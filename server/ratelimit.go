package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/aetherlabs/aethergo/utils"
)

// SendLimiter serializes invocations: the page issues one invocation
// per user action, and a second click while the first is still in
// flight gets a 429 instead of a concurrent call. A rate limiter sits
// in front of the gate to absorb scripted bursts; it is generous
// enough that quick sequential sends pass untouched.
type SendLimiter struct {
	limiter *rate.Limiter
	busy    chan struct{}
	logger  utils.Logger
}

// NewSendLimiter creates a limiter allowing one in-flight send and up
// to five sends per second.
func NewSendLimiter(logger utils.Logger) *SendLimiter {
	return &SendLimiter{
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		busy:    make(chan struct{}, 1),
		logger:  logger,
	}
}

// Middleware returns the gin middleware handler.
func (sl *SendLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sl.limiter.Allow() {
			sl.logger.Warn("Send rejected, too many requests",
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
				"kind":  "provider",
			})
			return
		}

		select {
		case sl.busy <- struct{}{}:
			defer func() { <-sl.busy }()
			c.Next()
		default:
			sl.logger.Warn("Send rejected, previous invocation still in flight",
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "one message at a time, please",
				"kind":  "provider",
			})
		}
	}
}
