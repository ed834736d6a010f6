package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/logger"
	"github.com/sirupsen/logrus"
)

// GinLogger logs one line per request. 5xx go to the error log and 4xx to the warn log.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := logrus.Fields{
			"status":    status,
			"method":    c.Request.Method,
			"path":      path,
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			entry["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			entry["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			logger.ErrorLogger.WithFields(entry).Error("request failed")
		case status >= 400:
			logger.WarnLogger.WithFields(entry).Warn("request rejected")
		default:
			logger.InfoLogger.WithFields(entry).Info("request handled")
		}
	}
}
