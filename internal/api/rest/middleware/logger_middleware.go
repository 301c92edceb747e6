package middleware

import (
	"time"

	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware создает middleware для логирования запросов
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		switch {
		case status >= 500:
			log.Error("[%s] %s %d %s %s", c.Request.Method, c.Request.RequestURI, status, latency, c.ClientIP())
		case status >= 400:
			log.Warn("[%s] %s %d %s %s", c.Request.Method, c.Request.RequestURI, status, latency, c.ClientIP())
		default:
			log.Info("[%s] %s %d %s %s", c.Request.Method, c.Request.RequestURI, status, latency, c.ClientIP())
		}
	}
}
