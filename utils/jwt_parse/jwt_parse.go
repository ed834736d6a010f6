package jwt_parse

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/utils"
)

var (
	ErrNoToken           = errors.New("no authorization token")
	ErrInvalidAuthFormat = errors.New("invalid authorization format")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

// BearerToken pulls the token out of an "Authorization: Bearer <token>" header value.
func BearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrNoToken
	}
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:]), nil
	}
	return "", ErrInvalidAuthFormat
}

// ParseToken validates an HS256 token signed with JWT_SECRET and returns its claims.
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return utils.GetJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// TokenVersion reads the token_version claim. JSON numbers decode as float64.
func TokenVersion(claims jwt.MapClaims) (int, error) {
	switch v := claims["token_version"].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case nil:
		return 0, errors.New("token_version not found in token claims")
	default:
		return 0, fmt.Errorf("invalid token_version type: %T", v)
	}
}

// Authenticate parses the bearer token and stores user_id, role and token_version in the
// context. On failure it aborts with 401 and returns false.
func Authenticate(c *gin.Context) bool {
	tokenString, err := BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		logger.WarnLogger.Warnf("Rejected request to %s: %v", c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return false
	}

	claims, err := ParseToken(tokenString)
	if err != nil {
		logger.WarnLogger.Warnf("Failed to parse JWT token: %v", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		logger.ErrorLogger.Error("No user identifier found in token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return false
	}
	c.Set(utils.ContextUserID, sub)

	if role, ok := claims["role"].(string); ok {
		c.Set(utils.ContextRole, role)
	}

	if version, err := TokenVersion(claims); err == nil {
		c.Set(utils.ContextTokenVersion, version)
	} else {
		logger.WarnLogger.Warnf("Token for user %s has no usable version: %v", sub, err)
	}
	return true
}

// ParseJWTToken is Authenticate as a standalone middleware.
func ParseJWTToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authenticate(c) {
			return
		}
		c.Next()
	}
}
