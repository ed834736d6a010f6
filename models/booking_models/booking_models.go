package booking_models

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
	ErrBookingNotFound       = errors.New("booking not found")
	ErrSlotAlreadyBooked     = errors.New("slot conflicts with existing booking")
	ErrInvalidTransition     = errors.New("booking status change not allowed")
	ErrBookingNotEditable    = errors.New("booking can no longer be changed")
	ErrBookingNotOwnedByUser = errors.New("booking does not belong to this user")
	ErrOverpayment           = errors.New("payment exceeds the outstanding balance")
)

// Booking is a customer's reservation of a slot.
type Booking struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"userId"`
	PackageID          uuid.UUID  `json:"packageId"`
	PackageName        string     `json:"packageName"`
	PackageTier        string     `json:"packageTier"`
	SlotID             uuid.UUID  `json:"slotId"`
	CustomerName       string     `json:"customerName"`
	CustomerEmail      string     `json:"customerEmail"`
	CustomerPhone      string     `json:"customerPhone"`
	CustomerAddress    string     `json:"customerAddress"`
	BookingDate        time.Time  `json:"bookingDate"`
	StartTime          string     `json:"startTime"`
	TotalAmount        float64    `json:"totalAmount"`
	AmountPaid         float64    `json:"amountPaid"`
	PaymentMethod      string     `json:"paymentMethod"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Outstanding is what is left to pay.
func (b *Booking) Outstanding() float64 {
	if b.AmountPaid >= b.TotalAmount {
		return 0
	}
	return b.TotalAmount - b.AmountPaid
}

// StartsAt is the booking's start instant in UTC.
func (b *Booking) StartsAt() (time.Time, error) {
	return booking_rules.At(b.BookingDate, b.StartTime, time.UTC)
}

// NewBooking builds a pending booking for a slot.
func NewBooking(userID, packageID, slotID uuid.UUID, date time.Time, startTime string, total float64) (*Booking, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now().UTC()
	return &Booking{
		ID:          id,
		UserID:      userID,
		PackageID:   packageID,
		SlotID:      slotID,
		BookingDate: date,
		StartTime:   startTime,
		TotalAmount: total,
		Status:      booking_rules.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

const bookingSelect = `
	SELECT b.id, b.user_id, b.package_id, p.name, p.tier, b.slot_id,
		b.customer_name, b.customer_email, b.customer_phone, b.customer_address,
		b.booking_date, b.start_time, b.total_amount, b.amount_paid, b.payment_method,
		b.status, b.cancellation_reason, b.cancelled_at, b.created_at, b.updated_at
	FROM bookings b
	JOIN packages p ON p.id = b.package_id`

func scanBooking(row interface{ Scan(...any) error }) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(&b.ID, &b.UserID, &b.PackageID, &b.PackageName, &b.PackageTier, &b.SlotID,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.CustomerAddress,
		&b.BookingDate, &b.StartTime, &b.TotalAmount, &b.AmountPaid, &b.PaymentMethod,
		&b.Status, &b.CancellationReason, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// CreateBooking inserts the booking. A live booking on the same slot trips the partial
// unique index and comes back as ErrSlotAlreadyBooked.
func CreateBooking(ctx context.Context, conn db.DBTX, b *Booking) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO bookings (
			id, user_id, package_id, slot_id, customer_name, customer_email, customer_phone,
			customer_address, booking_date, start_time, total_amount, amount_paid, payment_method,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID, b.UserID, b.PackageID, b.SlotID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.CustomerAddress, b.BookingDate, b.StartTime, b.TotalAmount, b.AmountPaid, b.PaymentMethod,
		b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrSlotAlreadyBooked
		}
		logger.ErrorLogger.Errorf("Failed to insert booking for slot %s: %v", b.SlotID, err)
		return fmt.Errorf("failed to create booking: %w", err)
	}
	logger.InfoLogger.Infof("Booking %s created for slot %s", b.ID, b.SlotID)
	return nil
}

func GetBookingByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*Booking, error) {
	return scanBooking(conn.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
}

// GetUserBooking loads a booking and checks it belongs to userID.
func GetUserBooking(ctx context.Context, conn db.DBTX, id, userID uuid.UUID) (*Booking, error) {
	b, err := GetBookingByID(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookingNotOwnedByUser
	}
	return b, nil
}

// LockBooking reads a booking row FOR UPDATE inside a transaction.
func LockBooking(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Booking, error) {
	return scanBooking(tx.QueryRow(ctx, bookingSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id))
}

// ListFilter narrows booking lists. Zero values mean no filter.
type ListFilter struct {
	UserID *uuid.UUID
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ListBookings returns one page of bookings plus the total count for the filter.
func ListBookings(ctx context.Context, conn db.DBTX, f ListFilter) ([]Booking, int, error) {
	where := ` WHERE ($1::uuid IS NULL OR b.user_id = $1)
		AND ($2::text = '' OR b.status = $2)
		AND ($3::date IS NULL OR b.booking_date >= $3)
		AND ($4::date IS NULL OR b.booking_date <= $4)`
	args := []any{f.UserID, f.Status, f.From, f.To}

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	rows, err := conn.Query(ctx, bookingSelect+where+` ORDER BY b.booking_date DESC, b.start_time DESC LIMIT $5 OFFSET $6`,
		append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	bookings, err := collectBookings(rows)
	return bookings, total, err
}

// ListBookingsBetween is the export query: every booking dated in [from, to].
func ListBookingsBetween(ctx context.Context, conn db.DBTX, from, to time.Time) ([]Booking, error) {
	rows, err := conn.Query(ctx, bookingSelect+`
		WHERE b.booking_date BETWEEN $1 AND $2
		ORDER BY b.booking_date, b.start_time`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for export: %w", err)
	}
	return collectBookings(rows)
}

// ExistingOnDate returns the live bookings on a day as rule inputs.
func ExistingOnDate(ctx context.Context, conn db.DBTX, date time.Time) ([]booking_rules.ExistingBooking, error) {
	rows, err := conn.Query(ctx, `
		SELECT id, slot_id, booking_date, start_time, status FROM bookings
		WHERE booking_date = $1 AND status <> 'cancelled'`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings on date: %w", err)
	}
	defer rows.Close()

	existing := []booking_rules.ExistingBooking{}
	for rows.Next() {
		var e booking_rules.ExistingBooking
		if err := rows.Scan(&e.ID, &e.SlotID, &e.Date, &e.StartTime, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		existing = append(existing, e)
	}
	return existing, rows.Err()
}

// UpdateContact changes the customer's contact details.
func UpdateContact(ctx context.Context, conn db.DBTX, b *Booking) error {
	_, err := conn.Exec(ctx, `
		UPDATE bookings SET customer_name = $2, customer_email = $3, customer_phone = $4,
			customer_address = $5, updated_at = NOW()
		WHERE id = $1`,
		b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.CustomerAddress)
	if err != nil {
		return fmt.Errorf("failed to update booking contact: %w", err)
	}
	return nil
}

// UpdateBookingStatus moves a booking along the status machine.
func UpdateBookingStatus(ctx context.Context, conn db.DBTX, b *Booking, status string) error {
	if !booking_rules.CanTransition(b.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, status)
	}

	tag, err := conn.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		b.ID, status, b.Status)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", b.ID, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %s changed concurrently", ErrInvalidTransition, b.ID)
	}

	logger.InfoLogger.Infof("Booking %s status %s -> %s", b.ID, b.Status, status)
	b.Status = status
	return nil
}

// CancelBooking marks the booking cancelled with an optional reason.
func CancelBooking(ctx context.Context, conn db.DBTX, b *Booking, reason string) error {
	if !booking_rules.CanTransition(b.Status, booking_rules.BookingCancelled) {
		return fmt.Errorf("%w: %s -> cancelled", ErrInvalidTransition, b.Status)
	}

	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}
	now := time.Now().UTC()
	_, err := conn.Exec(ctx, `
		UPDATE bookings SET status = 'cancelled', cancellation_reason = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1`, b.ID, reasonArg, now)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	b.Status = booking_rules.BookingCancelled
	b.CancellationReason = reasonArg
	b.CancelledAt = &now
	return nil
}

// nextPaymentStatus is the status a booking ends up in after a payment moves it toward to.
// Staying put is fine; any other change has to be a legal transition.
func nextPaymentStatus(from, to string) (string, error) {
	if from == to {
		return from, nil
	}
	if !booking_rules.CanTransition(from, to) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// RecordPayment adds to amount_paid and sets the status that follows from it.
// It refuses amounts above the outstanding balance and illegal status changes.
func RecordPayment(ctx context.Context, conn db.DBTX, b *Booking, amount float64, method, status string) error {
	if amount > b.Outstanding()+0.005 {
		return ErrOverpayment
	}
	next, err := nextPaymentStatus(b.Status, status)
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, `
		UPDATE bookings SET amount_paid = amount_paid + $2, payment_method = $3, status = $4, updated_at = NOW()
		WHERE id = $1`, b.ID, amount, method, next)
	if err != nil {
		return fmt.Errorf("failed to record payment on booking: %w", err)
	}
	b.AmountPaid += amount
	b.PaymentMethod = method
	b.Status = next
	return nil
}
