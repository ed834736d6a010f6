package auth_controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestValidateRegistration(t *testing.T) {
	ok := RegisterRequest{Name: "Nimal Perera", Email: "nimal@example.com", Phone: "0771234567", Password: "s3cretpass"}
	assert.Empty(t, validateRegistration(ok))

	bad := validateRegistration(RegisterRequest{Name: "N", Email: "nimal@", Phone: "12345", Password: "short"})
	assert.Contains(t, bad, "name")
	assert.Contains(t, bad, "email")
	assert.Contains(t, bad, "phone")
	assert.Equal(t, "Password must be at least 8 characters", bad["password"])
}

func TestRegisterRejectsInvalidForm(t *testing.T) {
	ac := NewAuthController(nil)
	r := gin.New()
	r.POST("/register", ac.Register)

	body, _ := json.Marshal(map[string]string{"name": "N", "email": "x", "phone": "1", "password": "1"})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "details")
}

func TestLoginRequiresCredentials(t *testing.T) {
	ac := NewAuthController(nil)
	r := gin.New()
	r.POST("/login", ac.Login)
	r.POST("/admin/login", ac.AdminLogin)

	for _, path := range []string{"/login", "/admin/login"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{"email":"a@b.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestMeRequiresUser(t *testing.T) {
	ac := NewAuthController(nil)
	r := gin.New()
	r.GET("/me", ac.Me)
	r.POST("/logout", ac.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
