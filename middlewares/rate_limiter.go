package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisclient "github.com/joy095/studio/config/redis"
	"github.com/joy095/studio/logger"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Usage:
//
//	r.POST("/api/auth/login", middleware.NewRateLimiter("5-1m", "login"), handler)
//	r.POST("/api/payments/process", middleware.CombinedRateLimiter("payment", "5-1m", "20-1h"), handler)

// rateLimitKey identifies the caller: the authenticated user when known, the client IP otherwise.
func rateLimitKey(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// createStore prefers Redis so limits hold across instances. Without REDIS_URL it falls
// back to a per-process memory store.
func createStore(routeID string, period time.Duration) (limiter.Store, error) {
	opts := limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: period,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := redisclient.GetRedisClient(ctx)
	if err != nil {
		return memorystore.NewStoreWithOptions(opts), nil
	}

	store, err := redisstore.NewStoreWithOptions(rdb, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for route %s: %w", routeID, err)
	}
	return store, nil
}

// ParseCustomRate allows formats like "10-2m", "30-20m", "5-1h", "20-10s".
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(rateStr, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	durationStr := parts[1]
	if len(durationStr) < 2 {
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}

	var unit time.Duration
	switch durationStr[len(durationStr)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}

	n, err := strconv.Atoi(durationStr[:len(durationStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid duration: %s", durationStr)
	}

	return limiter.Rate{
		Period: time.Duration(n) * unit,
		Limit:  int64(limit),
	}, nil
}

func limitReached(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down"})
}

func limitError(c *gin.Context, err error) {
	logger.ErrorLogger.Errorf("Rate limiter store error on %s: %v", c.FullPath(), err)
	c.Next()
}

func newLimiterMiddleware(lim *limiter.Limiter) gin.HandlerFunc {
	return ginmiddleware.NewMiddleware(lim,
		ginmiddleware.WithKeyGetter(rateLimitKey),
		ginmiddleware.WithLimitReachedHandler(limitReached),
		ginmiddleware.WithErrorHandler(limitError),
	)
}

func newLimiter(rateStr, routeID string) (*limiter.Limiter, error) {
	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		return nil, err
	}
	store, err := createStore(routeID, rate.Period)
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

// NewRateLimiter limits a route per caller, e.g. "10-2m".
func NewRateLimiter(rateStr, routeID string) gin.HandlerFunc {
	lim, err := newLimiter(rateStr, routeID)
	if err != nil {
		logger.ErrorLogger.Errorf("Rate limiter disabled for route %s: %v", routeID, err)
		return func(c *gin.Context) { c.Next() }
	}
	return newLimiterMiddleware(lim)
}

// CombinedRateLimiter applies several windows to one route, e.g. "5-1m" and "20-1h".
// Every window is counted before the request is let through.
func CombinedRateLimiter(routeID string, rateStrings ...string) gin.HandlerFunc {
	var limiters []*limiter.Limiter
	for i, rateStr := range rateStrings {
		lim, err := newLimiter(rateStr, fmt.Sprintf("%s_%d", routeID, i))
		if err != nil {
			logger.ErrorLogger.Errorf("Skipping window %q for route %s: %v", rateStr, routeID, err)
			continue
		}
		limiters = append(limiters, lim)
	}
	return combined(limiters)
}

func combined(limiters []*limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c)
		for _, lim := range limiters {
			lctx, err := lim.Get(c.Request.Context(), key)
			if err != nil {
				logger.ErrorLogger.Errorf("Rate limiter store error on %s: %v", c.FullPath(), err)
				continue
			}
			if lctx.Reached {
				c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
				c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
				limitReached(c)
				return
			}
		}
		c.Next()
	}
}
