package inventory_controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func TestBuildCart(t *testing.T) {
	camera, light := uuid.New(), uuid.New()
	cart, errs := BuildCart([]RentalLine{
		{ItemID: camera, Quantity: 2, StartDate: "2026-11-01", EndDate: "2026-11-03"},
		{ItemID: light, Quantity: 1, StartDate: "2026-11-02", EndDate: "2026-11-02"},
		{ItemID: camera, Quantity: 1, StartDate: "2026-11-01", EndDate: "2026-11-03"},
	}, now)
	require.Empty(t, errs)
	require.Equal(t, 2, cart.Len())
	assert.Equal(t, 3, cart.Items()[0].Quantity)
}

func TestBuildCartErrors(t *testing.T) {
	item := uuid.New()
	_, errs := BuildCart([]RentalLine{
		{ItemID: uuid.New(), Quantity: 1, StartDate: "2026-10-14", EndDate: "2026-10-16"},
		{ItemID: uuid.New(), Quantity: 1, StartDate: "2026-11-05", EndDate: "2026-11-01"},
		{ItemID: uuid.New(), Quantity: 1, StartDate: "2026-11-01", EndDate: "2027-05-01"},
		{ItemID: uuid.New(), Quantity: 1, StartDate: "01/11/2026", EndDate: "2026-11-01"},
		{ItemID: item, Quantity: 1, StartDate: "2026-11-01", EndDate: "2026-11-02"},
		{ItemID: item, Quantity: 1, StartDate: "2026-11-03", EndDate: "2026-11-04"},
	}, now)

	assert.Equal(t, "Rental cannot start in the past", errs["items[0]"])
	assert.Equal(t, "End date must be on or after the start date", errs["items[1]"])
	assert.Equal(t, "Rentals must end by 2027-04-15", errs["items[2]"])
	assert.Equal(t, "startDate must be YYYY-MM-DD", errs["items[3]"])
	assert.NotContains(t, errs, "items[4]")
	assert.Equal(t, "The same item must use one date range per rental", errs["items[5]"])
}

func TestCreateRentalRejectsEmptyCart(t *testing.T) {
	ic := NewInventoryController(nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(utils.ContextUserID, uuid.NewString())
		c.Next()
	})
	r.POST("/rentals", ic.CreateRental)

	req := httptest.NewRequest(http.MethodPost, "/rentals", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetItemRejectsBadID(t *testing.T) {
	ic := NewInventoryController(nil)
	r := gin.New()
	r.GET("/inventory/:id", ic.GetItem)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inventory/tripod", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
