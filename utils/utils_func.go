package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config"
	"github.com/joy095/studio/logger"
)

func init() {
	config.LoadEnv()
}

const DateLayout = "2006-01-02"

func GetJWTSecret() []byte {
	secret := config.GetEnv("JWT_SECRET", "")
	if secret == "" {
		logger.WarnLogger.Warn("JWT_SECRET environment variable not set.")
		return []byte("default-insecure-secret-only-for-development")
	}
	return []byte(secret)
}

// GetJWTTTL is how long an access token stays valid.
func GetJWTTTL() time.Duration {
	return time.Duration(config.GetEnvInt("JWT_TTL_HOURS", 24)) * time.Hour
}

// ParsePagination reads ?page and ?limit with sane bounds.
func ParsePagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// ParseDate parses a YYYY-MM-DD string in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
