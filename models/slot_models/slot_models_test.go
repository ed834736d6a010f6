package slot_models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduleSlot(t *testing.T) {
	pkg := uuid.New()
	date := time.Date(2026, 10, 20, 15, 30, 0, 0, time.UTC)

	s, err := NewScheduleSlot(pkg, date, "9:00", "11:00", 2500)
	require.NoError(t, err)
	assert.Equal(t, "09:00", s.StartTime)
	assert.Equal(t, "11:00", s.EndTime)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), s.SlotDate)
	assert.True(t, s.IsAvailable)
	assert.NotEqual(t, uuid.Nil, s.ID)

	rule := s.Rule()
	assert.Equal(t, s.ID, rule.ID)
	assert.Equal(t, "09:00", rule.StartTime)

	_, err = NewScheduleSlot(pkg, date, "11:00", "09:00", 0)
	assert.Error(t, err)
	_, err = NewScheduleSlot(pkg, date, "10:00", "10:00", 0)
	assert.Error(t, err)
	_, err = NewScheduleSlot(pkg, date, "ten", "11:00", 0)
	assert.Error(t, err)
	_, err = NewScheduleSlot(pkg, date, "09:00", "10:00", -1)
	assert.Error(t, err)
}

func TestBlackoutDays(t *testing.T) {
	d := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []time.Time{d}, BlackoutDays([]BlackoutDate{{Date: d, Reason: "Christmas"}}))
}
