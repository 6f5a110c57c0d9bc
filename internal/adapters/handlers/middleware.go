package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/iwtcode/benchService/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware журналирует запросы к API управления прогонами.
// Обращения к Swagger не журналируются, чтобы не засорять журнал прогона.
func LoggingMiddleware(parentLogger *logging.Logger) gin.HandlerFunc {
	logger := parentLogger.WithPrefix("HTTP")

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			c.Next()
			return
		}

		start := time.Now()
		logger.Info("Request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.Request.RemoteAddr,
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		)
	}
}
