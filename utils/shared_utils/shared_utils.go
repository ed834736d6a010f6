package shared_utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/logger"
	"github.com/redis/go-redis/v9"
)

const SLOT_HOLD_PREFIX = "slot_hold:"

// ErrSlotHeld is returned when another customer is mid-checkout on the slot.
var ErrSlotHeld = errors.New("slot is being booked by another customer, try again shortly")

func slotHoldKey(slotID uuid.UUID) string {
	return SLOT_HOLD_PREFIX + slotID.String()
}

// HoldSlot claims a short-lived hold on a slot for one user. Re-holding by the same
// user succeeds; anyone else gets ErrSlotHeld until the hold expires or is released.
func HoldSlot(ctx context.Context, rdb *redis.Client, slotID, userID uuid.UUID, ttl time.Duration) error {
	key := slotHoldKey(slotID)

	ok, err := rdb.SetNX(ctx, key, userID.String(), ttl).Result()
	if err != nil {
		logger.ErrorLogger.Errorf("Redis error setting hold for slot %s: %v", slotID, err)
		return fmt.Errorf("failed to hold slot: %w", err)
	}
	if ok {
		logger.InfoLogger.Infof("Slot %s held for user %s for %v", slotID, userID, ttl)
		return nil
	}

	owner, err := rdb.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read slot hold: %w", err)
	}
	if owner == userID.String() {
		return nil
	}
	return ErrSlotHeld
}

// ReleaseSlot drops a hold if userID still owns it.
func ReleaseSlot(ctx context.Context, rdb *redis.Client, slotID, userID uuid.UUID) {
	key := slotHoldKey(slotID)
	owner, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.ErrorLogger.Errorf("Failed to read hold for slot %s: %v", slotID, err)
		}
		return
	}
	if owner != userID.String() {
		return
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		logger.ErrorLogger.Errorf("Failed to release hold for slot %s: %v", slotID, err)
	}
}

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateTinyID returns a random lowercase alphanumeric string.
func GenerateTinyID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	if length > 1000 {
		return "", fmt.Errorf("length too large")
	}
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to generate random number: %v", err)
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = charset[num.Int64()]
	}
	return string(result), nil
}
