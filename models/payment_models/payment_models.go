package payment_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
)

// Payment methods.
const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodRazorpay     = "razorpay"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicatePayment = errors.New("transaction already recorded")
)

// Payment is one charge against a booking. Only the masked card and last four digits are kept.
type Payment struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"method"`
	Status         string    `json:"status"`
	TransactionID  string    `json:"transactionId"`
	GatewayOrderID *string   `json:"gatewayOrderId,omitempty"`
	CardLast4      *string   `json:"cardLast4,omitempty"`
	CardMasked     *string   `json:"cardMasked,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

const paymentColumns = `id, booking_id, amount, method, status, transaction_id, gateway_order_id, card_last4, card_masked, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.TransactionID,
		&p.GatewayOrderID, &p.CardLast4, &p.CardMasked, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return p, nil
}

// NewPayment builds a payment row ready for insert.
func NewPayment(bookingID uuid.UUID, amount float64, method, status, transactionID string) (*Payment, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	now := time.Now().UTC()
	return &Payment{
		ID:            id,
		BookingID:     bookingID,
		Amount:        amount,
		Method:        method,
		Status:        booking_rules.NormalizePaymentStatus(status),
		TransactionID: transactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func CreatePayment(ctx context.Context, conn db.DBTX, p *Payment) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO payments (id, booking_id, amount, method, status, transaction_id, gateway_order_id, card_last4, card_masked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.BookingID, p.Amount, p.Method, p.Status, p.TransactionID, p.GatewayOrderID,
		p.CardLast4, p.CardMasked, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicatePayment
		}
		logger.ErrorLogger.Errorf("Failed to record payment for booking %s: %v", p.BookingID, err)
		return fmt.Errorf("failed to record payment: %w", err)
	}
	logger.InfoLogger.Infof("Payment %s (%s) recorded for booking %s", p.ID, p.Status, p.BookingID)
	return nil
}

func ListPaymentsForBooking(ctx context.Context, conn db.DBTX, bookingID uuid.UUID) ([]Payment, error) {
	rows, err := conn.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// PendingAmount sums the gateway orders on a booking that are still awaiting capture.
func PendingAmount(ctx context.Context, conn db.DBTX, bookingID uuid.UUID) (float64, error) {
	var total float64
	err := conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::float8 FROM payments
		WHERE booking_id = $1 AND status = 'pending'`, bookingID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum pending payments: %w", err)
	}
	return total, nil
}

func GetPaymentByGatewayOrder(ctx context.Context, conn db.DBTX, orderID string) (*Payment, error) {
	return scanPayment(conn.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE gateway_order_id = $1`, orderID))
}

// SetPaymentStatus moves one payment along the payment status machine.
func SetPaymentStatus(ctx context.Context, conn db.DBTX, p *Payment, status string) error {
	status = booking_rules.NormalizePaymentStatus(status)
	if !booking_rules.CanTransitionPayment(p.Status, status) {
		return fmt.Errorf("payment status change %s -> %s not allowed", p.Status, status)
	}
	if _, err := conn.Exec(ctx, `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`, p.ID, status); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	p.Status = status
	return nil
}

// MarkBookingPaymentsRefunded flips every settled payment of a booking to refunded.
func MarkBookingPaymentsRefunded(ctx context.Context, conn db.DBTX, bookingID uuid.UUID) (int64, error) {
	tag, err := conn.Exec(ctx, `
		UPDATE payments SET status = 'refunded', updated_at = NOW()
		WHERE booking_id = $1 AND status IN ('partial', 'completed')`, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payments refunded: %w", err)
	}
	return tag.RowsAffected(), nil
}
