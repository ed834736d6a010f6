package shared_models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/shared_utils"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Notification types raised for the admin inbox.
const (
	NotificationNewBooking   = "new_booking"
	NotificationRefund       = "refund_request"
	NotificationComplaint    = "new_complaint"
	NotificationPayment      = "payment_received"
	NotificationCancellation = "booking_cancelled"
)

// GenerateUUIDv7 generates a new time-ordered id.
func GenerateUUIDv7() (uuid.UUID, error) {
	return uuid.NewV7()
}

// Claims is the access token payload.
type Claims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 token for the user.
func GenerateAccessToken(userID uuid.UUID, role string, tokenVersion int, duration time.Duration) (string, error) {
	now := time.Now()

	jti, err := shared_utils.GenerateTinyID(12)
	if err != nil {
		return "", fmt.Errorf("failed to generate jti: %w", err)
	}

	claims := Claims{
		Role:         role,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(utils.GetJWTSecret())
	if err != nil {
		logger.ErrorLogger.Errorf("failed to sign access token: %v", err)
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
