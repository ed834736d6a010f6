package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/logger"
)

// Context keys set by the auth middleware.
const (
	ContextUserID       = "user_id"
	ContextRole         = "role"
	ContextTokenVersion = "token_version"
)

// GetUserIDFromContext extracts the authenticated user ID. The auth middleware stores
// it as a string under "user_id".
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(ContextUserID)
	if !exists {
		logger.ErrorLogger.Error("User ID not found in context.")
		return uuid.Nil, ErrUserIDNotFound
	}

	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		userID, err := uuid.Parse(v)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to parse user ID string '%s' to UUID: %v", v, err)
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidUserID, err)
		}
		return userID, nil
	default:
		logger.ErrorLogger.Errorf("User ID in context has unexpected type %T", raw)
		return uuid.Nil, ErrInvalidUserID
	}
}

// GetRoleFromContext returns the caller's role, or "" when unauthenticated.
func GetRoleFromContext(c *gin.Context) string {
	return c.GetString(ContextRole)
}
