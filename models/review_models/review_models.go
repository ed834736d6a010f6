package review_models

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joy095/studio/badwords"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/models/shared_models"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusFlagged  = "flagged"
)

const (
	MinCommentLength = 10
	MaxCommentLength = 1000
)

// Categories a review may rate separately.
var Categories = []string{"service", "equipment", "value", "cleanliness", "staff"}

var ErrReviewNotFound = errors.New("review not found")

type Review struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"userId"`
	UserName        string         `json:"userName"`
	PackageID       uuid.UUID      `json:"packageId"`
	BookingID       *uuid.UUID     `json:"bookingId,omitempty"`
	Rating          int            `json:"rating"`
	Comment         string         `json:"comment"`
	CategoryRatings map[string]int `json:"categoryRatings"`
	Recommend       bool           `json:"recommend"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Input is what a customer submits.
type Input struct {
	PackageID       uuid.UUID      `json:"packageId" binding:"required"`
	BookingID       *uuid.UUID     `json:"bookingId"`
	Rating          int            `json:"rating"`
	Comment         string         `json:"comment"`
	CategoryRatings map[string]int `json:"categoryRatings"`
	Recommend       bool           `json:"recommend"`
}

func isCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Validate returns per-field messages; an empty map means the input is acceptable.
func Validate(in Input) map[string]string {
	errs := map[string]string{}
	if in.Rating < 1 || in.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	n := len([]rune(in.Comment))
	switch {
	case n < MinCommentLength:
		errs["comment"] = fmt.Sprintf("Comment must be at least %d characters", MinCommentLength)
	case n > MaxCommentLength:
		errs["comment"] = fmt.Sprintf("Comment must be at most %d characters", MaxCommentLength)
	}
	for name, v := range in.CategoryRatings {
		if !isCategory(name) {
			errs["categoryRatings"] = fmt.Sprintf("Unknown rating category %q", name)
			break
		}
		if v < 1 || v > 5 {
			errs["categoryRatings"] = fmt.Sprintf("Rating for %s must be between 1 and 5", name)
			break
		}
	}
	return errs
}

// InitialStatus holds reviews with blocked words for moderation.
func InitialStatus(comment string) string {
	if badwords.ContainsBadWords(comment) {
		return StatusFlagged
	}
	return StatusPending
}

// AverageRating rounds the mean to one decimal; zero when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

const reviewSelect = `
	SELECT r.id, r.user_id, u.name, r.package_id, r.booking_id, r.rating, r.comment,
		r.category_ratings, r.recommend, r.status, r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

func scanReview(row interface{ Scan(...any) error }) (*Review, error) {
	r := &Review{}
	err := row.Scan(&r.ID, &r.UserID, &r.UserName, &r.PackageID, &r.BookingID, &r.Rating, &r.Comment,
		&r.CategoryRatings, &r.Recommend, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	if r.CategoryRatings == nil {
		r.CategoryRatings = map[string]int{}
	}
	return r, nil
}

func collectReviews(rows pgx.Rows) ([]Review, error) {
	defer rows.Close()
	reviews := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

func categoryRatings(in map[string]int) map[string]int {
	if in == nil {
		return map[string]int{}
	}
	return in
}

func CreateReview(ctx context.Context, conn db.DBTX, userID uuid.UUID, in Input) (*Review, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	status := InitialStatus(in.Comment)

	_, err = conn.Exec(ctx, `
		INSERT INTO reviews (id, user_id, package_id, booking_id, rating, comment, category_ratings, recommend, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, userID, in.PackageID, in.BookingID, in.Rating, in.Comment, categoryRatings(in.CategoryRatings), in.Recommend, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return GetReviewByID(ctx, conn, id)
}

func GetReviewByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*Review, error) {
	return scanReview(conn.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
}

func ListReviewsByUser(ctx context.Context, conn db.DBTX, userID uuid.UUID) ([]Review, error) {
	rows, err := conn.Query(ctx, reviewSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return collectReviews(rows)
}

func ListApprovedForPackage(ctx context.Context, conn db.DBTX, packageID uuid.UUID) ([]Review, error) {
	rows, err := conn.Query(ctx, reviewSelect+` WHERE r.package_id = $1 AND r.status = 'approved' ORDER BY r.created_at DESC`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list package reviews: %w", err)
	}
	return collectReviews(rows)
}

// ListReviews is the admin moderation queue, optionally by status.
func ListReviews(ctx context.Context, conn db.DBTX, status string) ([]Review, error) {
	rows, err := conn.Query(ctx, reviewSelect+` WHERE ($1::text = '' OR r.status = $1) ORDER BY r.created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return collectReviews(rows)
}

// UpdateReview rewrites the user's own review and sends it back to moderation.
func UpdateReview(ctx context.Context, conn db.DBTX, id, userID uuid.UUID, in Input) (*Review, error) {
	tag, err := conn.Exec(ctx, `
		UPDATE reviews SET rating = $3, comment = $4, category_ratings = $5, recommend = $6, status = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`,
		id, userID, in.Rating, in.Comment, categoryRatings(in.CategoryRatings), in.Recommend, InitialStatus(in.Comment))
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrReviewNotFound
	}
	return GetReviewByID(ctx, conn, id)
}

func DeleteReview(ctx context.Context, conn db.DBTX, id, userID uuid.UUID) error {
	tag, err := conn.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ModerateReview sets the admin's verdict.
func ModerateReview(ctx context.Context, conn db.DBTX, id uuid.UUID, status string) (*Review, error) {
	if status != StatusApproved && status != StatusRejected && status != StatusFlagged {
		return nil, fmt.Errorf("invalid moderation status %q", status)
	}
	tag, err := conn.Exec(ctx, `UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to moderate review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrReviewNotFound
	}
	return GetReviewByID(ctx, conn, id)
}
