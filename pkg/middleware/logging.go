package middleware

import (
	"net/http"
	"time"

	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. A nil log uses the global logger.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		l := log
		if l == nil {
			l = logger.Default()
		}
		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"route":      c.FullPath(),
			"status":     statusCode,
			"latency":    time.Since(start),
			"bytes_in":   c.Request.ContentLength,
			"bytes_out":  c.Writer.Size(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := l.WithContext(c.Request.Context()).WithFields(fields)
		switch {
		case statusCode >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			entry.Error(err, "HTTP Request")
		case statusCode >= 400:
			entry.Warn("HTTP Request")
		default:
			entry.Info("HTTP Request")
		}
	}
}

// Recovery turns a panic into a 500 with the error envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		l := log
		if l == nil {
			l = logger.Default()
		}
		l.WithContext(c.Request.Context()).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error(nil, "Panic recovered")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"errors": []string{"Internal server error"},
		})
	})
}
