package notification_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is an entry in the admin inbox.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ReferenceID *uuid.UUID `json:"referenceId,omitempty"`
	IsRead      bool       `json:"isRead"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Notify adds an admin notification. It runs inside the caller's transaction when given one.
func Notify(ctx context.Context, conn db.DBTX, kind, title, message string, referenceID uuid.UUID) error {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	var ref *uuid.UUID
	if referenceID != uuid.Nil {
		ref = &referenceID
	}
	if _, err := conn.Exec(ctx, `
		INSERT INTO notifications (id, type, title, message, reference_id) VALUES ($1, $2, $3, $4, $5)`,
		id, kind, title, message, ref); err != nil {
		logger.ErrorLogger.Errorf("Failed to store %s notification: %v", kind, err)
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func ListNotifications(ctx context.Context, conn db.DBTX, unreadOnly bool, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := conn.Query(ctx, `
		SELECT id, type, title, message, reference_id, is_read, created_at FROM notifications
		WHERE (NOT $1 OR NOT is_read)
		ORDER BY created_at DESC LIMIT $2`, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.ReferenceID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func UnreadCount(ctx context.Context, conn db.DBTX) (int, error) {
	var n int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE NOT is_read`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

func MarkRead(ctx context.Context, conn db.DBTX, id uuid.UUID) error {
	tag, err := conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func MarkAllRead(ctx context.Context, conn db.DBTX) (int64, error) {
	tag, err := conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE NOT is_read`)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
