package slot_controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/models/slot_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestBuildBulkSlots(t *testing.T) {
	req := BulkSlotRequest{
		PackageID: uuid.New(),
		Times:     []TimeRange{{StartTime: "9:00", EndTime: "11:00"}, {StartTime: "14:00", EndTime: "16:00"}},
		Weekdays:  []int{int(time.Saturday), int(time.Sunday)},
		Price:     1500,
	}
	// 2026-10-17 is a Saturday.
	slots, err := buildBulkSlots(req, date("2026-10-16"), date("2026-10-19"))
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, time.Saturday, slots[0].SlotDate.Weekday())
	assert.Equal(t, time.Sunday, slots[3].SlotDate.Weekday())

	_, err = buildBulkSlots(req, date("2026-10-19"), date("2026-10-16"))
	assert.Error(t, err)

	_, err = buildBulkSlots(req, date("2026-10-16"), date("2027-03-01"))
	assert.Error(t, err)

	req.Times = []TimeRange{{StartTime: "12:00", EndTime: "11:00"}}
	_, err = buildBulkSlots(req, date("2026-10-17"), date("2026-10-17"))
	assert.Error(t, err)
}

func TestAvailableSlots(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	day := date("2026-10-20")
	free := slot_models.ScheduleSlot{ID: uuid.New(), SlotDate: day, StartTime: "09:00", EndTime: "10:00", Price: 500, IsAvailable: true}
	taken := slot_models.ScheduleSlot{ID: uuid.New(), SlotDate: day, StartTime: "11:00", EndTime: "12:00", IsAvailable: true}
	closed := slot_models.ScheduleSlot{ID: uuid.New(), SlotDate: day, StartTime: "13:00", EndTime: "14:00", IsAvailable: false}
	existing := []booking_rules.ExistingBooking{{ID: uuid.New(), SlotID: taken.ID, Date: day, StartTime: "11:00", Status: "paid"}}

	got := availableSlots([]slot_models.ScheduleSlot{free, taken, closed}, existing, nil, now, now.AddDate(0, 0, 90))
	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].ID)
	assert.Equal(t, 500.0, got[0].Price)

	assert.Empty(t, availableSlots([]slot_models.ScheduleSlot{free}, nil, []time.Time{day}, now, now.AddDate(0, 0, 90)))
}

func TestAvailableSlotsValidatesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sc := NewSlotController(nil)
	r := gin.New()
	r.GET("/slots/:packageId", sc.AvailableSlots)

	for _, path := range []string{
		"/slots/bad?date=2026-10-20",
		"/slots/" + uuid.NewString() + "?date=20-10-2026",
		"/slots/" + uuid.NewString() + "?date=2020-01-01",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetSlotRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sc := NewSlotController(nil)
	r := gin.New()
	r.GET("/slots/:id", sc.GetSlot)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
