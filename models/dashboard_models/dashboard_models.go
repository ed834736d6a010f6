package dashboard_models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/config/db"
)

// UserDashboard summarises one customer's activity.
type UserDashboard struct {
	BookingsByStatus map[string]int `json:"bookingsByStatus"`
	UpcomingBookings int            `json:"upcomingBookings"`
	OpenComplaints   int            `json:"openComplaints"`
	ActiveRentals    int            `json:"activeRentals"`
	TotalSpent       float64        `json:"totalSpent"`
}

// AdminDashboard summarises the whole studio.
type AdminDashboard struct {
	BookingsByStatus    map[string]int `json:"bookingsByStatus"`
	TotalRevenue        float64        `json:"totalRevenue"`
	PendingRefunds      int            `json:"pendingRefunds"`
	OpenComplaints      int            `json:"openComplaints"`
	PendingReviews      int            `json:"pendingReviews"`
	UnreadNotifications int            `json:"unreadNotifications"`
	TodaysBookings      int            `json:"todaysBookings"`
}

func bookingsByStatus(ctx context.Context, conn db.DBTX, userID *uuid.UUID) (map[string]int, error) {
	rows, err := conn.Query(ctx, `
		SELECT status, COUNT(*) FROM bookings
		WHERE ($1::uuid IS NULL OR user_id = $1)
		GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func GetUserDashboard(ctx context.Context, conn db.DBTX, userID uuid.UUID, today time.Time) (*UserDashboard, error) {
	counts, err := bookingsByStatus(ctx, conn, &userID)
	if err != nil {
		return nil, err
	}

	d := &UserDashboard{BookingsByStatus: counts}
	err = conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND booking_date >= $2 AND status <> 'cancelled'),
			(SELECT COUNT(*) FROM complaints WHERE user_id = $1 AND status IN ('open', 'in_progress')),
			(SELECT COUNT(*) FROM inventory_bookings WHERE user_id = $1 AND status IN ('pending', 'confirmed')),
			(SELECT COALESCE(SUM(p.amount), 0)::float8 FROM payments p JOIN bookings b ON b.id = p.booking_id
				WHERE b.user_id = $1 AND p.status IN ('partial', 'completed'))`,
		userID, today).Scan(&d.UpcomingBookings, &d.OpenComplaints, &d.ActiveRentals, &d.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to load user dashboard: %w", err)
	}
	return d, nil
}

func GetAdminDashboard(ctx context.Context, conn db.DBTX, today time.Time) (*AdminDashboard, error) {
	counts, err := bookingsByStatus(ctx, conn, nil)
	if err != nil {
		return nil, err
	}

	d := &AdminDashboard{BookingsByStatus: counts}
	err = conn.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(amount), 0)::float8 FROM payments WHERE status IN ('partial', 'completed')),
			(SELECT COUNT(*) FROM refunds WHERE status = 'pending'),
			(SELECT COUNT(*) FROM complaints WHERE status IN ('open', 'in_progress')),
			(SELECT COUNT(*) FROM reviews WHERE status IN ('pending', 'flagged')),
			(SELECT COUNT(*) FROM notifications WHERE NOT is_read),
			(SELECT COUNT(*) FROM bookings WHERE booking_date = $1 AND status <> 'cancelled')`,
		today).Scan(&d.TotalRevenue, &d.PendingRefunds, &d.OpenComplaints, &d.PendingReviews, &d.UnreadNotifications, &d.TodaysBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin dashboard: %w", err)
	}
	return d, nil
}
