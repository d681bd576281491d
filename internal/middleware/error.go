package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
)

const msgInternalError = "Внутренняя ошибка сервера"

// Recovery turns panics into a JSON 500 and logs them.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.FromContext(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": msgInternalError})
	})
}

// RequestLogger attaches a request-scoped logger to the context and logs
// every request when it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		logger := logging.Logger().With().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		event := logger.Info()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		if userID, ok := UserID(c); ok {
			event = event.Uint("user_id", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// Metrics records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
