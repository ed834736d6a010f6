package package_controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPackageRequestDefaults(t *testing.T) {
	p := PackageRequest{Name: "  Portrait  ", Tier: "basic", Price: 5000, DurationMinutes: 60}.toModel()
	assert.Equal(t, "Portrait", p.Name)
	assert.True(t, p.IsActive)

	inactive := false
	p = PackageRequest{Name: "Old", Tier: "basic", DurationMinutes: 30, IsActive: &inactive}.toModel()
	assert.False(t, p.IsActive)
}

func TestCreatePackageValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc := NewPackageController(nil)
	r := gin.New()
	r.POST("/packages", pc.CreatePackage)
	r.GET("/packages/:id", pc.GetPackage)

	req := httptest.NewRequest(http.MethodPost, "/packages", bytes.NewBufferString(`{"name":"Gold","tier":"platinum","durationMinutes":60}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/packages/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
