package shared_utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestHoldSlot(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	slot := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, HoldSlot(ctx, rdb, slot, alice, 10*time.Minute))
	assert.NoError(t, HoldSlot(ctx, rdb, slot, alice, 10*time.Minute), "owner may re-hold")
	assert.ErrorIs(t, HoldSlot(ctx, rdb, slot, bob, 10*time.Minute), ErrSlotHeld)

	ReleaseSlot(ctx, rdb, slot, bob)
	assert.True(t, mr.Exists(slotHoldKey(slot)), "non-owner cannot release")

	ReleaseSlot(ctx, rdb, slot, alice)
	assert.False(t, mr.Exists(slotHoldKey(slot)))
	assert.NoError(t, HoldSlot(ctx, rdb, slot, bob, 10*time.Minute))
}

func TestHoldSlotExpires(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	slot := uuid.New()

	require.NoError(t, HoldSlot(ctx, rdb, slot, uuid.New(), time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.NoError(t, HoldSlot(ctx, rdb, slot, uuid.New(), time.Minute))
}

func TestGenerateTinyID(t *testing.T) {
	id, err := GenerateTinyID(12)
	require.NoError(t, err)
	assert.Len(t, id, 12)
	assert.Regexp(t, `^[0-9a-z]+$`, id)

	_, err = GenerateTinyID(0)
	assert.Error(t, err)
}
