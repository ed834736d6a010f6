package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGinLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var info, warn, errs bytes.Buffer
	logger.InfoLogger.SetOutput(&info)
	logger.WarnLogger.SetOutput(&warn)
	logger.ErrorLogger.SetOutput(&errs)
	logger.InfoLogger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(GinLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, p := range []string{"/ok?x=1", "/bad", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Contains(t, info.String(), `"path":"/ok?x=1"`)
	assert.Contains(t, warn.String(), "/bad")
	assert.Contains(t, errs.String(), "/boom")
	assert.NotContains(t, info.String(), "/boom")
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}
