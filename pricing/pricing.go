// Package pricing computes rental charges for equipment carts and studio bookings.
package pricing

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrDateMismatch     = errors.New("item already in cart with different rental dates")
	ErrItemNotInCart    = errors.New("item not in cart")
)

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RentalDays counts billable days between start and end. Both ends are inclusive and
// a partial day is billed as a full one. An inverted range yields 0.
func RentalDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	hours := end.Sub(start).Hours()
	return int(math.Ceil(hours/24)) + 1
}

// ItemTotal is rate x quantity x rental days.
func ItemTotal(dailyRate float64, quantity int, start, end time.Time) float64 {
	if quantity <= 0 {
		return 0
	}
	return Round2(dailyRate * float64(quantity) * float64(RentalDays(start, end)))
}

// CartItem is one equipment line in a rental cart.
type CartItem struct {
	ItemID    uuid.UUID `json:"itemId"`
	Name      string    `json:"name"`
	DailyRate float64   `json:"dailyRate"`
	Quantity  int       `json:"quantity"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (c CartItem) Total() float64 {
	return ItemTotal(c.DailyRate, c.Quantity, c.StartDate, c.EndDate)
}

// Cart holds rental lines keyed by item id. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items map[uuid.UUID]CartItem
	order []uuid.UUID
}

func NewCart() *Cart {
	return &Cart{items: make(map[uuid.UUID]CartItem)}
}

// Add puts an item in the cart. Adding an item already present with the same dates
// bumps its quantity.
func (c *Cart) Add(item CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if item.EndDate.Before(item.StartDate) {
		return ErrInvalidDateRange
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.items[item.ItemID]; ok {
		if !cur.StartDate.Equal(item.StartDate) || !cur.EndDate.Equal(item.EndDate) {
			return ErrDateMismatch
		}
		cur.Quantity += item.Quantity
		c.items[item.ItemID] = cur
		return nil
	}
	c.items[item.ItemID] = item
	c.order = append(c.order, item.ItemID)
	return nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (c *Cart) UpdateQuantity(id uuid.UUID, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.items[id]
	if !ok {
		return ErrItemNotInCart
	}
	if qty <= 0 {
		c.removeLocked(id)
		return nil
	}
	cur.Quantity = qty
	c.items[id] = cur
	return nil
}

func (c *Cart) Remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Cart) removeLocked(id uuid.UUID) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total sums every line.
func (c *Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items() {
		sum += it.Total()
	}
	return Round2(sum)
}

// Extra is an add-on charged per booking, such as an extra hour or equipment bundle.
type Extra struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// BookingTotal is the package price plus any extras, the slot fee among them.
func BookingTotal(basePrice float64, extras []Extra) float64 {
	total := basePrice
	for _, e := range extras {
		if e.Quantity > 0 {
			total += e.Price * float64(e.Quantity)
		}
	}
	return Round2(total)
}

// Outstanding is what is still owed after payments so far, never negative.
func Outstanding(total, paid float64) float64 {
	return Round2(math.Max(0, total-paid))
}
