package slot_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joy095/studio/config/db"
)

var ErrBlackoutNotFound = errors.New("blackout date not found")

// BlackoutDate is a day the studio takes no bookings.
type BlackoutDate struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// AddBlackoutDate upserts a closed day.
func AddBlackoutDate(ctx context.Context, conn db.DBTX, date time.Time, reason string) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO blackout_dates (blackout_date, reason) VALUES ($1, $2)
		ON CONFLICT (blackout_date) DO UPDATE SET reason = EXCLUDED.reason`, date, reason)
	if err != nil {
		return fmt.Errorf("failed to add blackout date: %w", err)
	}
	return nil
}

func DeleteBlackoutDate(ctx context.Context, conn db.DBTX, date time.Time) error {
	tag, err := conn.Exec(ctx, `DELETE FROM blackout_dates WHERE blackout_date = $1`, date)
	if err != nil {
		return fmt.Errorf("failed to delete blackout date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlackoutNotFound
	}
	return nil
}

// ListBlackoutDates returns closed days from `from` onwards.
func ListBlackoutDates(ctx context.Context, conn db.DBTX, from time.Time) ([]BlackoutDate, error) {
	rows, err := conn.Query(ctx, `
		SELECT blackout_date, reason FROM blackout_dates
		WHERE blackout_date >= $1 ORDER BY blackout_date`, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list blackout dates: %w", err)
	}
	defer rows.Close()

	dates := []BlackoutDate{}
	for rows.Next() {
		var b BlackoutDate
		if err := rows.Scan(&b.Date, &b.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan blackout date: %w", err)
		}
		dates = append(dates, b)
	}
	return dates, rows.Err()
}

// BlackoutDays flattens the list into plain dates for the booking rules.
func BlackoutDays(dates []BlackoutDate) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = d.Date
	}
	return out
}
