package auth

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/user_models"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/jwt_parse"
)

// TokenVersionLookup returns the current token version for a user.
type TokenVersionLookup func(ctx context.Context, userID uuid.UUID) (int, error)

// AuthMiddleware validates the bearer token and checks its version against the users table.
func AuthMiddleware() gin.HandlerFunc {
	return NewAuthMiddleware(func(ctx context.Context, userID uuid.UUID) (int, error) {
		return user_models.GetTokenVersion(ctx, db.DB, userID)
	})
}

// NewAuthMiddleware is AuthMiddleware with a custom version source.
func NewAuthMiddleware(lookup TokenVersionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwt_parse.Authenticate(c) {
			return
		}

		userID, err := utils.GetUserIDFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		tokenVersion := c.GetInt(utils.ContextTokenVersion)
		current, err := lookup(c.Request.Context(), userID)
		if err != nil {
			logger.WarnLogger.Warnf("User %s from token could not be loaded: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User associated with token not found"})
			return
		}
		if tokenVersion != current {
			logger.WarnLogger.Warnf("Token version mismatch for user %s: jwt=%d db=%d", userID, tokenVersion, current)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please log in again."})
			return
		}

		c.Next()
	}
}

// RequireRole aborts with 403 unless the caller has one of roles. Mount after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := utils.GetRoleFromContext(c)
		if !slices.Contains(roles, role) {
			logger.WarnLogger.Warnf("Role %q denied on %s", role, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient role"})
			return
		}
		c.Next()
	}
}
