package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

func TestParseCustomRate(t *testing.T) {
	cases := []struct {
		in     string
		limit  int64
		period time.Duration
	}{
		{"10-2m", 10, 2 * time.Minute},
		{"5-1h", 5, time.Hour},
		{"20-10s", 20, 10 * time.Second},
	}
	for _, tc := range cases {
		rate, err := ParseCustomRate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.limit, rate.Limit)
		assert.Equal(t, tc.period, rate.Period)
	}

	for _, bad := range []string{"", "10", "x-1m", "10-1d", "10-m", "0-1m", "10-0m"} {
		_, err := ParseCustomRate(bad)
		assert.Error(t, err, bad)
	}
}

func memLimiter(rate string) *limiter.Limiter {
	r, _ := ParseCustomRate(rate)
	return limiter.New(memorystore.NewStore(), r)
}

func hit(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLimiterMiddlewareBlocksPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", newLimiterMiddleware(memLimiter("2-1m")), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
}

func TestCombinedLimiterRunsHandlerOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := gin.New()
	r.GET("/ping", combined([]*limiter.Limiter{memLimiter("3-1m"), memLimiter("1-1h")}), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.3"))
	assert.Equal(t, 1, calls)
}

func TestRateLimitKeyPrefersUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.1.1.1:80"
	assert.Equal(t, "ip:10.1.1.1", rateLimitKey(c))

	c.Set("user_id", "abc")
	assert.Equal(t, "user:abc", rateLimitKey(c))
}

func TestLimiterRedisStoreSharesCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rate, err := ParseCustomRate("2-1m")
	require.NoError(t, err)

	// two engines on one Redis behave like two instances of the service
	engines := make([]*gin.Engine, 2)
	for i := range engines {
		store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "rate_limiter:ping", MaxRetry: 3})
		require.NoError(t, err)
		engines[i] = gin.New()
		engines[i].GET("/ping", newLimiterMiddleware(limiter.New(store, rate)), func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	assert.Equal(t, http.StatusOK, hit(engines[0], "10.0.0.9"))
	assert.Equal(t, http.StatusOK, hit(engines[1], "10.0.0.9"))
	assert.Equal(t, http.StatusTooManyRequests, hit(engines[0], "10.0.0.9"))
	assert.NotEmpty(t, mr.Keys())
}
