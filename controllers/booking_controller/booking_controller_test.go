package booking_controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/shared_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(userID *uuid.UUID) (*gin.Engine, *BookingController) {
	bc := NewBookingController(nil, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != nil {
			c.Set(utils.ContextUserID, userID.String())
		}
		c.Next()
	})
	r.POST("/bookings", bc.CreateBooking)
	r.GET("/bookings", bc.ListMyBookings)
	r.GET("/bookings/:id", bc.GetMyBooking)
	r.PUT("/admin/bookings/:id/status", bc.AdminUpdateStatus)
	r.GET("/admin/bookings/export", bc.ExportBookings)
	return r, bc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	r, _ := newRouter(nil)
	w := doJSON(r, http.MethodPost, "/bookings", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingValidatesCustomerFields(t *testing.T) {
	user := uuid.New()
	r, _ := newRouter(&user)

	w := doJSON(r, http.MethodPost, "/bookings", map[string]any{"packageId": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/bookings", map[string]any{
		"packageId":       uuid.NewString(),
		"slotId":          uuid.NewString(),
		"customerName":    "A",
		"customerEmail":   "not-an-email",
		"customerPhone":   "12345",
		"customerAddress": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details, "customerName")
	assert.Contains(t, body.Details, "customerEmail")
	assert.Contains(t, body.Details, "customerPhone")
	assert.Contains(t, body.Details, "customerAddress")
}

func TestListRejectsUnknownStatus(t *testing.T) {
	user := uuid.New()
	r, _ := newRouter(&user)
	w := doJSON(r, http.MethodGet, "/bookings?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMyBookingRejectsBadID(t *testing.T) {
	user := uuid.New()
	r, _ := newRouter(&user)
	w := doJSON(r, http.MethodGet, "/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminUpdateStatusRejectsUnknownStatus(t *testing.T) {
	r, _ := newRouter(nil)
	w := doJSON(r, http.MethodPut, "/admin/bookings/"+uuid.NewString()+"/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportValidatesRange(t *testing.T) {
	r, _ := newRouter(nil)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/admin/bookings/export?from=2026-01-10", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/admin/bookings/export?from=2026-01-10&to=2026-01-01", nil).Code)
}

func TestRuleErrorStatuses(t *testing.T) {
	cases := map[error]int{
		booking_rules.ErrSlotConflict:           http.StatusConflict,
		booking_models.ErrSlotAlreadyBooked:     http.StatusConflict,
		shared_utils.ErrSlotHeld:                http.StatusConflict,
		booking_rules.ErrBlackoutDate:           http.StatusUnprocessableEntity,
		booking_rules.ErrInsufficientNotice:     http.StatusUnprocessableEntity,
		booking_models.ErrInvalidTransition:     http.StatusUnprocessableEntity,
		booking_models.ErrBookingNotFound:       http.StatusNotFound,
		booking_models.ErrBookingNotOwnedByUser: http.StatusForbidden,
		assert.AnError:                          http.StatusInternalServerError,
	}
	for err, want := range cases {
		got, _ := ruleError(err)
		assert.Equal(t, want, got, err.Error())
	}
}

func TestBuildBookingWorkbook(t *testing.T) {
	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	bookings := []booking_models.Booking{
		{ID: uuid.New(), BookingDate: day, StartTime: "10:00", PackageName: "Portrait", PackageTier: "basic",
			CustomerName: "Nimal Perera", Status: "paid", TotalAmount: 6000, AmountPaid: 6000, PaymentMethod: "card"},
		{ID: uuid.New(), BookingDate: day, StartTime: "14:00", PackageName: "Wedding", PackageTier: "premium",
			CustomerName: "Kamala Silva", Status: "payment_due", TotalAmount: 50000, AmountPaid: 20000, PaymentMethod: "cash"},
	}

	f, err := BuildBookingWorkbook(bookings)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Booking ID", header)

	name, _ := f.GetCellValue(exportSheet, "F3")
	assert.Equal(t, "Kamala Silva", name)

	label, _ := f.GetCellValue(exportSheet, "I4")
	assert.Equal(t, "Total", label)
	total, _ := f.GetCellValue(exportSheet, "J4", excelize.Options{RawCellValue: true})
	assert.Equal(t, "56000", total)
	outstanding, _ := f.GetCellValue(exportSheet, "L3", excelize.Options{RawCellValue: true})
	assert.Equal(t, "30000", outstanding)
}
