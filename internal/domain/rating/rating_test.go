package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	scores := []int{5, 4, 4, 3, 5, 1, 5}

	var ratings []models.Rating
	for i, s := range scores {
		ratings = append(ratings, models.Rating{
			ID:        uint(i + 1),
			Score:     s,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	st := Summarize(3, ratings)

	assert.Equal(t, uint(3), st.BarberID)
	assert.Equal(t, 7, st.TotalRatings)
	assert.Equal(t, 3.86, st.AverageScore)
	assert.Equal(t, map[string]int{"5": 3, "4": 2, "3": 1, "2": 0, "1": 1}, st.Distribution)

	require.Len(t, st.Recent, RecentReviews)
	assert.Equal(t, uint(7), st.Recent[0].ID)
	assert.Equal(t, uint(3), st.Recent[4].ID)
}

func TestSummarize_Empty(t *testing.T) {
	st := Summarize(1, nil)
	assert.Zero(t, st.AverageScore)
	assert.Zero(t, st.TotalRatings)
	assert.NotNil(t, st.Recent)
}

func TestValidateScore(t *testing.T) {
	for s := 1; s <= 5; s++ {
		assert.NoError(t, ValidateScore(s))
	}
	assert.Error(t, ValidateScore(0))
	assert.Error(t, ValidateScore(6))
}
