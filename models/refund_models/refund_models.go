package refund_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/models/shared_models"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusProcessed = "processed"
)

var (
	ErrRefundNotFound = errors.New("refund not found")
	ErrRefundExists   = errors.New("a refund is already open for this booking")
	ErrRefundDecided  = errors.New("refund has already been decided")
)

type Refund struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"bookingId"`
	UserID     uuid.UUID `json:"userId"`
	Amount     float64   `json:"amount"`
	Percentage int       `json:"percentage"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	AdminNote  *string   `json:"adminNote,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const refundColumns = `id, booking_id, user_id, amount, percentage, reason, status, admin_note, created_at, updated_at`

func scanRefund(row interface{ Scan(...any) error }) (*Refund, error) {
	r := &Refund{}
	err := row.Scan(&r.ID, &r.BookingID, &r.UserID, &r.Amount, &r.Percentage, &r.Reason, &r.Status, &r.AdminNote, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to scan refund: %w", err)
	}
	return r, nil
}

func collectRefunds(rows pgx.Rows) ([]Refund, error) {
	defer rows.Close()
	refunds := []Refund{}
	for rows.Next() {
		r, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, *r)
	}
	return refunds, rows.Err()
}

// CreateRefund opens a pending refund. Only one open refund per booking is allowed.
func CreateRefund(ctx context.Context, conn db.DBTX, bookingID, userID uuid.UUID, amount float64, percentage int, reason string) (*Refund, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}

	r, err := scanRefund(conn.QueryRow(ctx, `
		INSERT INTO refunds (id, booking_id, user_id, amount, percentage, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING `+refundColumns,
		id, bookingID, userID, amount, percentage, reason))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrRefundExists
		}
		return nil, err
	}
	return r, nil
}

func GetRefundByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*Refund, error) {
	return scanRefund(conn.QueryRow(ctx, `SELECT `+refundColumns+` FROM refunds WHERE id = $1`, id))
}

// LockRefund reads a refund FOR UPDATE.
func LockRefund(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Refund, error) {
	return scanRefund(tx.QueryRow(ctx, `SELECT `+refundColumns+` FROM refunds WHERE id = $1 FOR UPDATE`, id))
}

func ListRefundsByUser(ctx context.Context, conn db.DBTX, userID uuid.UUID) ([]Refund, error) {
	rows, err := conn.Query(ctx, `SELECT `+refundColumns+` FROM refunds WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refunds: %w", err)
	}
	return collectRefunds(rows)
}

// ListRefunds is the admin list, optionally by status.
func ListRefunds(ctx context.Context, conn db.DBTX, status string) ([]Refund, error) {
	rows, err := conn.Query(ctx, `
		SELECT `+refundColumns+` FROM refunds
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list refunds: %w", err)
	}
	return collectRefunds(rows)
}

// DecideRefund approves or rejects a pending refund.
func DecideRefund(ctx context.Context, conn db.DBTX, r *Refund, status, note string) error {
	if r.Status != StatusPending {
		return ErrRefundDecided
	}
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid refund decision %q", status)
	}

	var noteArg *string
	if note != "" {
		noteArg = &note
	}
	if _, err := conn.Exec(ctx, `UPDATE refunds SET status = $2, admin_note = $3, updated_at = NOW() WHERE id = $1`,
		r.ID, status, noteArg); err != nil {
		return fmt.Errorf("failed to update refund: %w", err)
	}
	r.Status = status
	r.AdminNote = noteArg
	return nil
}
