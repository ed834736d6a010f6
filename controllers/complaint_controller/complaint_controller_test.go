package complaint_controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func send(method, path string, body any, handler gin.HandlerFunc, route string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(utils.ContextUserID, uuid.NewString())
		c.Next()
	})
	r.Handle(method, route, handler)

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

func TestCreateComplaintValidation(t *testing.T) {
	cc := NewComplaintController(nil)
	w := send(http.MethodPost, "/complaints", map[string]string{
		"title":       "Bad",
		"description": "too short",
		"category":    "weather",
		"priority":    "critical",
	}, cc.CreateComplaint, "/complaints")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Title must be 5-100 characters", body.Details["title"])
	assert.Equal(t, "Description must be 20-2000 characters", body.Details["description"])
	assert.Contains(t, body.Details, "category")
	assert.Contains(t, body.Details, "priority")
}

func TestAdminComplaintFilters(t *testing.T) {
	cc := NewComplaintController(nil)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodGet, "/admin/complaints?status=lost", nil, cc.AdminListComplaints, "/admin/complaints").Code)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodGet, "/admin/complaints?priority=meh", nil, cc.AdminListComplaints, "/admin/complaints").Code)
}

func TestRespondRejectsUnknownStatus(t *testing.T) {
	cc := NewComplaintController(nil)
	w := send(http.MethodPut, "/admin/complaints/"+uuid.NewString(), map[string]string{"status": "escalated"}, cc.RespondToComplaint, "/admin/complaints/:id")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminGetComplaintRejectsBadID(t *testing.T) {
	cc := NewComplaintController(nil)
	w := send(http.MethodGet, "/complaints/7", nil, cc.AdminGetComplaint, "/complaints/:id")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplaintErrorForeignBooking(t *testing.T) {
	cc := NewComplaintController(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	cc.complaintError(c, booking_models.ErrBookingNotOwnedByUser)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "does not belong to you")
}
