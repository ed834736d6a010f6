package review_controller

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

func newRouter() *gin.Engine {
	rc := NewReviewController(nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(utils.ContextUserID, uuid.NewString())
		c.Next()
	})
	r.POST("/reviews", rc.CreateReview)
	r.GET("/admin/reviews", rc.AdminListReviews)
	r.PUT("/admin/reviews/:id/moderate", rc.ModerateReview)
	return r
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
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

func TestCreateReviewValidation(t *testing.T) {
	r := newRouter()

	w := send(r, http.MethodPost, "/reviews", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/reviews", map[string]any{
		"packageId":       uuid.NewString(),
		"rating":          6,
		"comment":         "   short   ",
		"categoryRatings": map[string]int{"service": 0},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Details, "rating")
	assert.Contains(t, body.Details, "comment")
	assert.Contains(t, body.Details, "categoryRatings")
}

func TestAdminReviewValidation(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/admin/reviews?status=hidden", nil).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPut, "/admin/reviews/"+uuid.NewString()+"/moderate", map[string]string{"status": "pending"}).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPut, "/admin/reviews/abc/moderate", map[string]string{"status": "approved"}).Code)
}

func TestReviewErrorBookingLinks(t *testing.T) {
	rc := NewReviewController(nil)
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{booking_models.ErrBookingNotOwnedByUser, http.StatusForbidden, "does not belong to you"},
		{ErrPackageMismatch, http.StatusUnprocessableEntity, "different package"},
		{booking_models.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		rc.reviewError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), tc.msg)
	}
}
