package inventory_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
	"github.com/joy095/studio/pricing"
)

const (
	RentalPending   = "pending"
	RentalConfirmed = "confirmed"
	RentalCompleted = "completed"
	RentalCancelled = "cancelled"
)

var (
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrItemUnavailable     = errors.New("inventory item is not available for rent")
	ErrInsufficientStock   = errors.New("not enough stock for the requested dates")
	ErrRentalNotFound      = errors.New("rental not found")
	ErrRentalNotCancelable = errors.New("rental can no longer be cancelled")
)

type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	DailyRate   float64   `json:"dailyRate"`
	Quantity    int       `json:"quantity"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const itemColumns = `id, name, category, description, daily_rate, quantity, is_active, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	it := &Item{}
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Description, &it.DailyRate, &it.Quantity, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	return it, nil
}

func CreateItem(ctx context.Context, conn db.DBTX, it *Item) (*Item, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	return scanItem(conn.QueryRow(ctx, `
		INSERT INTO inventory_items (id, name, category, description, daily_rate, quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		id, it.Name, it.Category, it.Description, it.DailyRate, it.Quantity, it.IsActive))
}

func GetItemByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*Item, error) {
	return scanItem(conn.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
}

// ListItems returns the catalogue, optionally only rentable items.
func ListItems(ctx context.Context, conn db.DBTX, activeOnly bool, category string) ([]Item, error) {
	rows, err := conn.Query(ctx, `
		SELECT `+itemColumns+` FROM inventory_items
		WHERE (NOT $1 OR is_active) AND ($2::text = '' OR category = $2)
		ORDER BY category, name`, activeOnly, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func UpdateItem(ctx context.Context, conn db.DBTX, it *Item) (*Item, error) {
	return scanItem(conn.QueryRow(ctx, `
		UPDATE inventory_items
		SET name = $2, category = $3, description = $4, daily_rate = $5, quantity = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+itemColumns,
		it.ID, it.Name, it.Category, it.Description, it.DailyRate, it.Quantity, it.IsActive))
}

// DeactivateItem hides an item from the catalogue. Rentals keep pointing at it.
func DeactivateItem(ctx context.Context, conn db.DBTX, id uuid.UUID) error {
	tag, err := conn.Exec(ctx, `UPDATE inventory_items SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Rental is an equipment booking made of one or more lines.
type Rental struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Status    string       `json:"status"`
	TotalCost float64      `json:"totalCost"`
	Items     []RentalItem `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type RentalItem struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"itemId"`
	ItemName  string    `json:"itemName"`
	Quantity  int       `json:"quantity"`
	DailyRate float64   `json:"dailyRate"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Days      int       `json:"days"`
	TotalCost float64   `json:"totalCost"`
}

// ReservedQuantity counts units of an item already out on live rentals overlapping [start, end].
func ReservedQuantity(ctx context.Context, conn db.DBTX, itemID uuid.UUID, start, end time.Time) (int, error) {
	var reserved int
	err := conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(bi.quantity), 0)::int
		FROM inventory_booking_items bi
		JOIN inventory_bookings ib ON ib.id = bi.inventory_booking_id
		WHERE bi.item_id = $1 AND ib.status <> 'cancelled'
			AND bi.start_date <= $3 AND bi.end_date >= $2`, itemID, start, end).Scan(&reserved)
	if err != nil {
		return 0, fmt.Errorf("failed to count reserved stock: %w", err)
	}
	return reserved, nil
}

// CreateRental stores the cart as a rental. Items are locked so concurrent rentals cannot
// oversell; pricing comes from the locked rows, not the client.
func CreateRental(ctx context.Context, tx pgx.Tx, userID uuid.UUID, cart *pricing.Cart) (*Rental, error) {
	rentalID, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}

	rental := &Rental{ID: rentalID, UserID: userID, Status: RentalPending}
	for _, line := range cart.Items() {
		item, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, line.ItemID))
		if err != nil {
			return nil, err
		}
		if !item.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}

		reserved, err := ReservedQuantity(ctx, tx, item.ID, line.StartDate, line.EndDate)
		if err != nil {
			return nil, err
		}
		if reserved+line.Quantity > item.Quantity {
			return nil, fmt.Errorf("%w: %s (%d of %d left)", ErrInsufficientStock, item.Name, max(item.Quantity-reserved, 0), item.Quantity)
		}

		lineID, err := shared_models.GenerateUUIDv7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
		}
		ri := RentalItem{
			ID:        lineID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  line.Quantity,
			DailyRate: item.DailyRate,
			StartDate: line.StartDate,
			EndDate:   line.EndDate,
			Days:      pricing.RentalDays(line.StartDate, line.EndDate),
			TotalCost: pricing.ItemTotal(item.DailyRate, line.Quantity, line.StartDate, line.EndDate),
		}
		rental.Items = append(rental.Items, ri)
		rental.TotalCost += ri.TotalCost
	}
	rental.TotalCost = pricing.Round2(rental.TotalCost)

	err = tx.QueryRow(ctx, `
		INSERT INTO inventory_bookings (id, user_id, status, total_cost)
		VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		rental.ID, userID, rental.Status, rental.TotalCost).Scan(&rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	for _, ri := range rental.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory_booking_items (id, inventory_booking_id, item_id, quantity, daily_rate, start_date, end_date, days, total_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			ri.ID, rental.ID, ri.ItemID, ri.Quantity, ri.DailyRate, ri.StartDate, ri.EndDate, ri.Days, ri.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to add rental line: %w", err)
		}
	}

	logger.InfoLogger.Infof("Rental %s created for user %s with %d lines", rental.ID, userID, len(rental.Items))
	return rental, nil
}

func loadRentalItems(ctx context.Context, conn db.DBTX, rental *Rental) error {
	rows, err := conn.Query(ctx, `
		SELECT bi.id, bi.item_id, i.name, bi.quantity, bi.daily_rate, bi.start_date, bi.end_date, bi.days, bi.total_cost
		FROM inventory_booking_items bi
		JOIN inventory_items i ON i.id = bi.item_id
		WHERE bi.inventory_booking_id = $1
		ORDER BY bi.start_date, i.name`, rental.ID)
	if err != nil {
		return fmt.Errorf("failed to load rental lines: %w", err)
	}
	defer rows.Close()

	rental.Items = []RentalItem{}
	for rows.Next() {
		var ri RentalItem
		if err := rows.Scan(&ri.ID, &ri.ItemID, &ri.ItemName, &ri.Quantity, &ri.DailyRate, &ri.StartDate, &ri.EndDate, &ri.Days, &ri.TotalCost); err != nil {
			return fmt.Errorf("failed to scan rental line: %w", err)
		}
		rental.Items = append(rental.Items, ri)
	}
	return rows.Err()
}

// GetUserRental loads a rental with its lines if it belongs to userID.
func GetUserRental(ctx context.Context, conn db.DBTX, id, userID uuid.UUID) (*Rental, error) {
	r := &Rental{}
	err := conn.QueryRow(ctx, `
		SELECT id, user_id, status, total_cost, created_at, updated_at
		FROM inventory_bookings WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&r.ID, &r.UserID, &r.Status, &r.TotalCost, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to fetch rental: %w", err)
	}
	if err := loadRentalItems(ctx, conn, r); err != nil {
		return nil, err
	}
	return r, nil
}

func ListRentalsByUser(ctx context.Context, conn db.DBTX, userID uuid.UUID) ([]Rental, error) {
	rows, err := conn.Query(ctx, `
		SELECT id, user_id, status, total_cost, created_at, updated_at
		FROM inventory_bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}

	rentals := []Rental{}
	for rows.Next() {
		var r Rental
		if err := rows.Scan(&r.ID, &r.UserID, &r.Status, &r.TotalCost, &r.CreatedAt, &r.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rentals {
		if err := loadRentalItems(ctx, conn, &rentals[i]); err != nil {
			return nil, err
		}
	}
	return rentals, nil
}

// CancelRental releases the stock held by a pending or confirmed rental.
func CancelRental(ctx context.Context, conn db.DBTX, r *Rental) error {
	if r.Status != RentalPending && r.Status != RentalConfirmed {
		return ErrRentalNotCancelable
	}
	if _, err := conn.Exec(ctx, `UPDATE inventory_bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1`, r.ID); err != nil {
		return fmt.Errorf("failed to cancel rental: %w", err)
	}
	r.Status = RentalCancelled
	return nil
}
