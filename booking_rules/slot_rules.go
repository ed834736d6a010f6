// Package booking_rules decides which studio slots a customer may book. It works on
// plain in-memory values; callers load slots, bookings and blackout dates first.
package booking_rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/config"
)

var (
	ErrDateInPast         = errors.New("date is in the past")
	ErrBeyondHorizon      = errors.New("date is beyond the booking window")
	ErrBlackoutDate       = errors.New("studio is closed on this date")
	ErrSlotBooked         = errors.New("slot is already booked")
	ErrInsufficientNotice = errors.New("slot must be booked at least 2 hours in advance")
	ErrSlotConflict       = errors.New("slot conflicts with existing booking")
	ErrInvalidSlotTime    = errors.New("slot time must be HH:MM")
)

// Slot is the part of a schedule slot the rules look at.
type Slot struct {
	ID          uuid.UUID
	Date        time.Time
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	IsAvailable bool
}

// ExistingBooking is a booking already holding a date/time.
type ExistingBooking struct {
	ID        uuid.UUID
	SlotID    uuid.UUID
	Date      time.Time
	StartTime string
	Status    string
}

const statusCancelled = "cancelled"

// ParseClock parses "HH:MM" (or "HH:MM:SS") into hour and minute.
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, ErrInvalidSlotTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, ErrInvalidSlotTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, ErrInvalidSlotTime
	}
	return h, m, nil
}

// NormalizeClock rewrites a clock string as zero-padded HH:MM.
func NormalizeClock(s string) (string, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// At combines a calendar date with an HH:MM clock in loc.
func At(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, loc), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// CheckDate rejects dates before today, after latest, or on a blackout day.
func CheckDate(date, now, latest time.Time, blackouts []time.Time) error {
	loc := now.Location()
	day := dayIn(date, loc)
	today := dayIn(now, loc)

	if day.Before(today) {
		return ErrDateInPast
	}
	if day.After(dayIn(latest, loc)) {
		return ErrBeyondHorizon
	}
	for _, b := range blackouts {
		if sameDay(b, date) {
			return ErrBlackoutDate
		}
	}
	return nil
}

// CheckSlot rejects a slot that is already taken, starts too soon, or collides with
// a live booking on the same date and start time.
func CheckSlot(slot Slot, existing []ExistingBooking, now time.Time) error {
	if !slot.IsAvailable {
		return ErrSlotBooked
	}

	start, err := At(slot.Date, slot.StartTime, now.Location())
	if err != nil {
		return err
	}
	if start.Sub(now) < config.MinAdvanceNotice {
		return ErrInsufficientNotice
	}

	candidateClock, _ := NormalizeClock(slot.StartTime)
	for _, b := range existing {
		if b.Status == statusCancelled {
			continue
		}
		if b.SlotID == slot.ID && slot.ID != uuid.Nil {
			return ErrSlotConflict
		}
		clock, err := NormalizeClock(b.StartTime)
		if err != nil {
			continue
		}
		if sameDay(b.Date, slot.Date) && clock == candidateClock {
			return ErrSlotConflict
		}
	}
	return nil
}

// Validate runs the date rules and then the slot rules.
func Validate(slot Slot, existing []ExistingBooking, blackouts []time.Time, now, latest time.Time) error {
	if err := CheckDate(slot.Date, now, latest, blackouts); err != nil {
		return err
	}
	return CheckSlot(slot, existing, now)
}

// FilterAvailable keeps the slots a customer could book right now, preserving order.
func FilterAvailable(slots []Slot, existing []ExistingBooking, blackouts []time.Time, now, latest time.Time) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if Validate(s, existing, blackouts, now, latest) == nil {
			out = append(out, s)
		}
	}
	return out
}
