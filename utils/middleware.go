package utils

import (
	"time"

	"camsapi/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs each request with a level keyed to the status class.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		if status >= 500 {
			logger.Errorf("HTTP %s %s - Status: %d, Duration: %v, IP: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP())
		} else if status >= 400 {
			logger.Warnf("HTTP %s %s - Status: %d, Duration: %v, IP: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP())
		} else {
			logger.Infof("HTTP %s %s - Status: %d, Duration: %v, IP: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP())
		}
	}
}

// PerformanceRecorder is implemented by the log service so the middleware
// does not depend on the services package.
type PerformanceRecorder interface {
	RecordPerformance(endpoint, method string, status int, duration time.Duration)
}

// PerformanceMiddleware persists per-request timing through the recorder.
// Recording happens after the response is written and must not block it.
func PerformanceMiddleware(rec PerformanceRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		go rec.RecordPerformance(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
