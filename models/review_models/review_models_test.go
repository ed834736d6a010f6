package review_models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/joy095/studio/badwords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ok := Input{PackageID: uuid.New(), Rating: 5, Comment: "Great lighting and friendly staff", CategoryRatings: map[string]int{"staff": 5}}
	assert.Empty(t, Validate(ok))

	bad := ok
	bad.Rating = 6
	bad.Comment = "meh"
	errs := Validate(bad)
	assert.Contains(t, errs, "rating")
	assert.Contains(t, errs, "comment")

	long := ok
	long.Comment = strings.Repeat("a", MaxCommentLength+1)
	assert.Contains(t, Validate(long), "comment")

	cat := ok
	cat.CategoryRatings = map[string]int{"staff": 0}
	assert.Contains(t, Validate(cat), "categoryRatings")

	unknown := ok
	unknown.CategoryRatings = map[string]int{"parking": 4}
	assert.Contains(t, Validate(unknown), "categoryRatings")
}

func TestInitialStatus(t *testing.T) {
	_, err := badwords.Load(strings.NewReader("scam\n"))
	require.NoError(t, err)

	assert.Equal(t, StatusFlagged, InitialStatus("Total scam of a studio"))
	assert.Equal(t, StatusPending, InitialStatus("Lovely backdrop options"))
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.3, AverageRating([]Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}))
}
