package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays(t *testing.T) {
	assert.Equal(t, 1, RentalDays(date(2024, 1, 1), date(2024, 1, 1)))
	assert.Equal(t, 3, RentalDays(date(2024, 1, 1), date(2024, 1, 3)))
	assert.Equal(t, 3, RentalDays(date(2024, 1, 1), date(2024, 1, 2).Add(6*time.Hour)))
	assert.Equal(t, 0, RentalDays(date(2024, 1, 3), date(2024, 1, 1)))
}

func TestItemTotal(t *testing.T) {
	assert.Equal(t, 6000.0, ItemTotal(1000, 2, date(2024, 1, 1), date(2024, 1, 3)))
	assert.Equal(t, 0.0, ItemTotal(1000, 0, date(2024, 1, 1), date(2024, 1, 3)))
}

func TestCart(t *testing.T) {
	cam := uuid.New()
	light := uuid.New()
	c := NewCart()

	require.NoError(t, c.Add(CartItem{ItemID: cam, Name: "Camera", DailyRate: 1000, Quantity: 2, StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 3)}))
	require.NoError(t, c.Add(CartItem{ItemID: light, Name: "Light", DailyRate: 250, Quantity: 1, StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 1)}))
	assert.Equal(t, 6250.0, c.Total())

	t.Run("same dates merge quantity", func(t *testing.T) {
		require.NoError(t, c.Add(CartItem{ItemID: light, Name: "Light", DailyRate: 250, Quantity: 1, StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 1)}))
		assert.Equal(t, 2, c.Items()[1].Quantity)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("different dates rejected", func(t *testing.T) {
		err := c.Add(CartItem{ItemID: light, DailyRate: 250, Quantity: 1, StartDate: date(2024, 2, 1), EndDate: date(2024, 2, 1)})
		assert.ErrorIs(t, err, ErrDateMismatch)
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.ErrorIs(t, c.Add(CartItem{ItemID: uuid.New(), Quantity: 0}), ErrInvalidQuantity)
		assert.ErrorIs(t, c.Add(CartItem{ItemID: uuid.New(), Quantity: 1, StartDate: date(2024, 1, 2), EndDate: date(2024, 1, 1)}), ErrInvalidDateRange)
	})

	t.Run("update and remove", func(t *testing.T) {
		require.NoError(t, c.UpdateQuantity(cam, 1))
		assert.Equal(t, 3000.0+500.0, c.Total())

		require.NoError(t, c.UpdateQuantity(cam, 0))
		assert.Equal(t, 1, c.Len())
		assert.ErrorIs(t, c.UpdateQuantity(cam, 1), ErrItemNotInCart)

		c.Remove(light)
		assert.Empty(t, c.Items())
		assert.Equal(t, 0.0, c.Total())
	})
}

func TestBookingTotal(t *testing.T) {
	total := BookingTotal(15000, []Extra{{Name: "Extra hour", Price: 2500, Quantity: 2}, {Name: "Ignored", Price: 999, Quantity: 0}})
	assert.Equal(t, 20000.0, total)
	assert.Equal(t, 5000.0, Outstanding(20000, 15000))
	assert.Equal(t, 0.0, Outstanding(20000, 25000))

	// package price with the slot fee as its only extra
	assert.Equal(t, 17500.0, BookingTotal(15000, []Extra{{Name: "Slot fee", Price: 2500, Quantity: 1}}))
}
