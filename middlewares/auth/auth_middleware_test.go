package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/models/shared_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func router(lookup TokenVersionLookup, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{NewAuthMiddleware(lookup)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})
	r.GET("/private", handlers...)
	return r
}

func call(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func versionIs(v int) TokenVersionLookup {
	return func(ctx context.Context, userID uuid.UUID) (int, error) { return v, nil }
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New()
	token, err := shared_models.GenerateAccessToken(userID, shared_models.RoleUser, 1, time.Hour)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := call(router(versionIs(1)), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(router(versionIs(1)), "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(router(versionIs(1)), "Token "+token).Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(router(versionIs(1)), "Bearer "+token+"x").Code)
	})

	t.Run("revoked by version bump", func(t *testing.T) {
		w := call(router(versionIs(2)), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Session expired")
	})

	t.Run("unknown user", func(t *testing.T) {
		lookup := func(ctx context.Context, id uuid.UUID) (int, error) { return 0, errors.New("not found") }
		assert.Equal(t, http.StatusUnauthorized, call(router(lookup), "Bearer "+token).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		old, err := shared_models.GenerateAccessToken(userID, shared_models.RoleUser, 1, -time.Minute)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call(router(versionIs(1)), "Bearer "+old).Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userToken, err := shared_models.GenerateAccessToken(uuid.New(), shared_models.RoleUser, 1, time.Hour)
	require.NoError(t, err)
	adminToken, err := shared_models.GenerateAccessToken(uuid.New(), shared_models.RoleAdmin, 1, time.Hour)
	require.NoError(t, err)

	r := router(versionIs(1), shared_models.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, call(r, "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, call(r, "Bearer "+adminToken).Code)
}
