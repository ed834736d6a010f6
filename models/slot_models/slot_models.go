package slot_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotExists   = errors.New("a slot already exists at this date and time")
	ErrSlotInUse    = errors.New("slot has active bookings")
)

// ScheduleSlot is a bookable time window for a package on one day.
type ScheduleSlot struct {
	ID          uuid.UUID `json:"id"`
	PackageID   uuid.UUID `json:"packageId"`
	SlotDate    time.Time `json:"slotDate"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Rule converts the row into the value the booking rules work on.
func (s ScheduleSlot) Rule() booking_rules.Slot {
	return booking_rules.Slot{
		ID:          s.ID,
		Date:        s.SlotDate,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsAvailable: s.IsAvailable,
	}
}

// NewScheduleSlot normalizes the clock strings and checks start < end.
func NewScheduleSlot(packageID uuid.UUID, date time.Time, start, end string, price float64) (*ScheduleSlot, error) {
	startClock, err := booking_rules.NormalizeClock(start)
	if err != nil {
		return nil, err
	}
	endClock, err := booking_rules.NormalizeClock(end)
	if err != nil {
		return nil, err
	}
	if endClock <= startClock {
		return nil, errors.New("start time must be before end time")
	}
	if price < 0 {
		return nil, errors.New("price must not be negative")
	}

	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	return &ScheduleSlot{
		ID:          id,
		PackageID:   packageID,
		SlotDate:    time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:   startClock,
		EndTime:     endClock,
		Price:       price,
		IsAvailable: true,
	}, nil
}

const slotColumns = `id, package_id, slot_date, start_time, end_time, price, is_available, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (*ScheduleSlot, error) {
	s := &ScheduleSlot{}
	if err := row.Scan(&s.ID, &s.PackageID, &s.SlotDate, &s.StartTime, &s.EndTime, &s.Price, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to scan slot: %w", err)
	}
	return s, nil
}

func collectSlots(rows pgx.Rows) ([]ScheduleSlot, error) {
	defer rows.Close()
	slots := []ScheduleSlot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func CreateScheduleSlot(ctx context.Context, conn db.DBTX, s *ScheduleSlot) (*ScheduleSlot, error) {
	created, err := scanSlot(conn.QueryRow(ctx, `
		INSERT INTO slots (id, package_id, slot_date, start_time, end_time, price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+slotColumns,
		s.ID, s.PackageID, s.SlotDate, s.StartTime, s.EndTime, s.Price, s.IsAvailable))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlotExists
		}
		logger.ErrorLogger.Errorf("Failed to create slot for package %s: %v", s.PackageID, err)
		return nil, err
	}
	return created, nil
}

// CreateScheduleSlots inserts many slots, skipping ones that already exist.
func CreateScheduleSlots(ctx context.Context, conn db.DBTX, slots []*ScheduleSlot) (int, error) {
	created := 0
	for _, s := range slots {
		tag, err := conn.Exec(ctx, `
			INSERT INTO slots (id, package_id, slot_date, start_time, end_time, price, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (package_id, slot_date, start_time) DO NOTHING`,
			s.ID, s.PackageID, s.SlotDate, s.StartTime, s.EndTime, s.Price, s.IsAvailable)
		if err != nil {
			return created, fmt.Errorf("failed to create slot %s %s: %w", s.SlotDate.Format("2006-01-02"), s.StartTime, err)
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}

func GetScheduleSlotByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*ScheduleSlot, error) {
	return scanSlot(conn.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id))
}

// LockScheduleSlot reads a slot with FOR UPDATE so concurrent bookings serialize on it.
func LockScheduleSlot(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*ScheduleSlot, error) {
	return scanSlot(tx.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1 FOR UPDATE`, id))
}

// ListSlotsForDate returns a package's slots on one day in start order.
func ListSlotsForDate(ctx context.Context, conn db.DBTX, packageID uuid.UUID, date time.Time) ([]ScheduleSlot, error) {
	rows, err := conn.Query(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE package_id = $1 AND slot_date = $2
		ORDER BY start_time`, packageID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return collectSlots(rows)
}

// ListSlotsInRange is the admin view between two dates, optionally for one package.
func ListSlotsInRange(ctx context.Context, conn db.DBTX, packageID *uuid.UUID, from, to time.Time) ([]ScheduleSlot, error) {
	rows, err := conn.Query(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE slot_date BETWEEN $1 AND $2 AND ($3::uuid IS NULL OR package_id = $3)
		ORDER BY slot_date, start_time`, from, to, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return collectSlots(rows)
}

func UpdateScheduleSlot(ctx context.Context, conn db.DBTX, s *ScheduleSlot) (*ScheduleSlot, error) {
	updated, err := scanSlot(conn.QueryRow(ctx, `
		UPDATE slots SET start_time = $2, end_time = $3, price = $4, is_available = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+slotColumns,
		s.ID, s.StartTime, s.EndTime, s.Price, s.IsAvailable))
	if err != nil && db.IsUniqueViolation(err) {
		return nil, ErrSlotExists
	}
	return updated, err
}

func SetSlotAvailability(ctx context.Context, conn db.DBTX, id uuid.UUID, available bool) error {
	tag, err := conn.Exec(ctx, `UPDATE slots SET is_available = $2, updated_at = NOW() WHERE id = $1`, id, available)
	if err != nil {
		return fmt.Errorf("failed to update slot availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// DeleteScheduleSlot removes a slot that no live booking points at.
func DeleteScheduleSlot(ctx context.Context, conn db.DBTX, id uuid.UUID) error {
	var inUse bool
	if err := conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE slot_id = $1)`, id).Scan(&inUse); err != nil {
		return fmt.Errorf("failed to check slot usage: %w", err)
	}
	if inUse {
		return ErrSlotInUse
	}

	tag, err := conn.Exec(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}
