package booking_rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckDate(t *testing.T) {
	latest := now.AddDate(0, 0, 90)
	blackouts := []time.Time{day(2026, 12, 25)}

	assert.ErrorIs(t, CheckDate(day(2026, 10, 14), now, latest, nil), ErrDateInPast)
	assert.NoError(t, CheckDate(day(2026, 10, 15), now, latest, nil))
	assert.NoError(t, CheckDate(day(2027, 1, 13), now, latest, nil))
	assert.ErrorIs(t, CheckDate(day(2027, 1, 14), now, latest, nil), ErrBeyondHorizon)
	assert.ErrorIs(t, CheckDate(day(2026, 12, 25), now, latest, blackouts), ErrBlackoutDate)
}

func TestCheckSlot(t *testing.T) {
	slotID := uuid.New()
	slot := Slot{ID: slotID, Date: day(2026, 10, 16), StartTime: "14:00", EndTime: "16:00", IsAvailable: true}

	t.Run("available slot passes", func(t *testing.T) {
		assert.NoError(t, CheckSlot(slot, nil, now))
	})

	t.Run("unavailable slot", func(t *testing.T) {
		s := slot
		s.IsAvailable = false
		assert.ErrorIs(t, CheckSlot(s, nil, now), ErrSlotBooked)
	})

	t.Run("less than two hours notice", func(t *testing.T) {
		s := slot
		s.Date = day(2026, 10, 15)
		s.StartTime = "11:30"
		assert.ErrorIs(t, CheckSlot(s, nil, now), ErrInsufficientNotice)

		s.StartTime = "12:00"
		assert.NoError(t, CheckSlot(s, nil, now))
	})

	t.Run("conflicts with existing booking", func(t *testing.T) {
		existing := []ExistingBooking{{SlotID: uuid.New(), Date: day(2026, 10, 16), StartTime: "14:00", Status: BookingConfirmed}}
		err := CheckSlot(slot, existing, now)
		require.ErrorIs(t, err, ErrSlotConflict)
		assert.Contains(t, err.Error(), "conflicts with existing booking")
	})

	t.Run("same slot id conflicts", func(t *testing.T) {
		existing := []ExistingBooking{{SlotID: slotID, Date: day(2026, 10, 16), StartTime: "09:00", Status: BookingPending}}
		assert.ErrorIs(t, CheckSlot(slot, existing, now), ErrSlotConflict)
	})

	t.Run("cancelled bookings are ignored", func(t *testing.T) {
		existing := []ExistingBooking{{SlotID: slotID, Date: day(2026, 10, 16), StartTime: "14:00", Status: BookingCancelled}}
		assert.NoError(t, CheckSlot(slot, existing, now))
	})

	t.Run("bad clock", func(t *testing.T) {
		s := slot
		s.StartTime = "25:00"
		assert.ErrorIs(t, CheckSlot(s, nil, now), ErrInvalidSlotTime)
	})
}

func TestFilterAvailable(t *testing.T) {
	latest := now.AddDate(0, 0, 90)
	taken := uuid.New()
	slots := []Slot{
		{ID: uuid.New(), Date: day(2026, 10, 16), StartTime: "09:00", IsAvailable: true},
		{ID: taken, Date: day(2026, 10, 16), StartTime: "11:00", IsAvailable: true},
		{ID: uuid.New(), Date: day(2026, 10, 16), StartTime: "13:00", IsAvailable: false},
		{ID: uuid.New(), Date: day(2026, 12, 25), StartTime: "09:00", IsAvailable: true},
		{ID: uuid.New(), Date: day(2026, 10, 17), StartTime: "09:00", IsAvailable: true},
	}
	existing := []ExistingBooking{{SlotID: taken, Date: day(2026, 10, 16), StartTime: "11:00", Status: BookingPaid}}

	got := FilterAvailable(slots, existing, []time.Time{day(2026, 12, 25)}, now, latest)
	require.Len(t, got, 2)
	assert.Equal(t, slots[0].ID, got[0].ID)
	assert.Equal(t, slots[4].ID, got[1].ID)
}

func TestNormalizeClock(t *testing.T) {
	c, err := NormalizeClock("9:05:00")
	require.NoError(t, err)
	assert.Equal(t, "09:05", c)

	_, err = NormalizeClock("nine")
	assert.ErrorIs(t, err, ErrInvalidSlotTime)
}
