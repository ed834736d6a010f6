package complaint_models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	in := Input{Title: "Broken light", Description: "The key light flickered for the whole session.", Category: "equipment"}
	assert.Empty(t, Validate(&in))
	assert.Equal(t, "medium", in.Priority)

	bad := Input{Title: "Bad", Description: "too short", Category: "parking", Priority: "asap"}
	errs := Validate(&bad)
	assert.Equal(t, "Title must be 5-100 characters", errs["title"])
	assert.Equal(t, "Description must be 20-2000 characters", errs["description"])
	assert.Contains(t, errs["category"], "service, equipment, payment, staff, other")
	assert.Contains(t, errs, "priority")

	long := Input{Title: strings.Repeat("t", 101), Description: strings.Repeat("d", 20), Category: "other", Priority: "urgent"}
	errs = Validate(&long)
	assert.Contains(t, errs, "title")
	assert.NotContains(t, errs, "description")
}
