package complaint_models

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/models/shared_models"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

var (
	Categories = []string{"service", "equipment", "payment", "staff", "other"}
	Priorities = []string{"low", "medium", "high", "urgent"}
	Statuses   = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
)

const (
	MinTitleLength       = 5
	MaxTitleLength       = 100
	MinDescriptionLength = 20
	MaxDescriptionLength = 2000
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrComplaintLocked   = errors.New("complaint can only be changed while open")
)

type Complaint struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	BookingID     *uuid.UUID `json:"bookingId,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	AdminResponse *string    `json:"adminResponse,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Input struct {
	BookingID   *uuid.UUID `json:"bookingId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
}

func lengthError(label string, s string, min, max int) string {
	n := len([]rune(strings.TrimSpace(s)))
	if n < min || n > max {
		return fmt.Sprintf("%s must be %d-%d characters", label, min, max)
	}
	return ""
}

// Validate returns per-field messages; empty means valid. Priority defaults to medium.
func Validate(in *Input) map[string]string {
	errs := map[string]string{}
	if msg := lengthError("Title", in.Title, MinTitleLength, MaxTitleLength); msg != "" {
		errs["title"] = msg
	}
	if msg := lengthError("Description", in.Description, MinDescriptionLength, MaxDescriptionLength); msg != "" {
		errs["description"] = msg
	}
	if !slices.Contains(Categories, in.Category) {
		errs["category"] = "Category must be one of " + strings.Join(Categories, ", ")
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}
	if !slices.Contains(Priorities, in.Priority) {
		errs["priority"] = "Priority must be one of " + strings.Join(Priorities, ", ")
	}
	return errs
}

const complaintColumns = `id, user_id, booking_id, title, description, category, priority, status, admin_response, created_at, updated_at`

func scanComplaint(row interface{ Scan(...any) error }) (*Complaint, error) {
	c := &Complaint{}
	err := row.Scan(&c.ID, &c.UserID, &c.BookingID, &c.Title, &c.Description, &c.Category, &c.Priority,
		&c.Status, &c.AdminResponse, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to scan complaint: %w", err)
	}
	return c, nil
}

func collectComplaints(rows pgx.Rows) ([]Complaint, error) {
	defer rows.Close()
	out := []Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func CreateComplaint(ctx context.Context, conn db.DBTX, userID uuid.UUID, in Input) (*Complaint, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	return scanComplaint(conn.QueryRow(ctx, `
		INSERT INTO complaints (id, user_id, booking_id, title, description, category, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'open')
		RETURNING `+complaintColumns,
		id, userID, in.BookingID, strings.TrimSpace(in.Title), strings.TrimSpace(in.Description), in.Category, in.Priority))
}

func GetComplaintByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*Complaint, error) {
	return scanComplaint(conn.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
}

// GetUserComplaint loads a complaint only if userID filed it.
func GetUserComplaint(ctx context.Context, conn db.DBTX, id, userID uuid.UUID) (*Complaint, error) {
	return scanComplaint(conn.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1 AND user_id = $2`, id, userID))
}

func ListComplaintsByUser(ctx context.Context, conn db.DBTX, userID uuid.UUID) ([]Complaint, error) {
	rows, err := conn.Query(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return collectComplaints(rows)
}

// ListComplaints is the admin view, urgent first.
func ListComplaints(ctx context.Context, conn db.DBTX, status, priority string) ([]Complaint, error) {
	rows, err := conn.Query(ctx, `
		SELECT `+complaintColumns+` FROM complaints
		WHERE ($1::text = '' OR status = $1) AND ($2::text = '' OR priority = $2)
		ORDER BY CASE priority WHEN 'urgent' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 ELSE 4 END, created_at DESC`,
		status, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return collectComplaints(rows)
}

// UpdateComplaint edits the user's complaint while it is still open.
func UpdateComplaint(ctx context.Context, conn db.DBTX, c *Complaint, in Input) (*Complaint, error) {
	if c.Status != StatusOpen {
		return nil, ErrComplaintLocked
	}
	return scanComplaint(conn.QueryRow(ctx, `
		UPDATE complaints SET title = $2, description = $3, category = $4, priority = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
		RETURNING `+complaintColumns,
		c.ID, strings.TrimSpace(in.Title), strings.TrimSpace(in.Description), in.Category, in.Priority))
}

func DeleteComplaint(ctx context.Context, conn db.DBTX, c *Complaint) error {
	if c.Status != StatusOpen {
		return ErrComplaintLocked
	}
	if _, err := conn.Exec(ctx, `DELETE FROM complaints WHERE id = $1 AND status = 'open'`, c.ID); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}

// RespondToComplaint sets the admin status and response.
func RespondToComplaint(ctx context.Context, conn db.DBTX, id uuid.UUID, status, response string) (*Complaint, error) {
	if !slices.Contains(Statuses, status) {
		return nil, fmt.Errorf("invalid complaint status %q", status)
	}
	var respArg *string
	if response != "" {
		respArg = &response
	}
	return scanComplaint(conn.QueryRow(ctx, `
		UPDATE complaints SET status = $2, admin_response = COALESCE($3, admin_response), updated_at = NOW()
		WHERE id = $1
		RETURNING `+complaintColumns, id, status, respArg))
}
