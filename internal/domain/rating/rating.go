package rating

import (
	"context"
	"sort"
	"strconv"

	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const RecentReviews = 5

func ValidateScore(score int) error {
	if score < 1 || score > 5 {
		return httperr.ErrValidation("invalid_score", "Score must be between 1 and 5")
	}
	return nil
}

type Stats struct {
	BarberID     uint            `json:"barber_id"`
	AverageScore float64         `json:"average_score"`
	TotalRatings int             `json:"total_ratings"`
	Distribution map[string]int  `json:"rating_distribution"`
	Recent       []models.Rating `json:"recent_reviews"`
}

// Summarize folds the ratings of one barber. The average is rounded to
// two decimals and is zero when there are no ratings.
func Summarize(barberID uint, ratings []models.Rating) Stats {
	st := Stats{
		BarberID:     barberID,
		Distribution: map[string]int{"5": 0, "4": 0, "3": 0, "2": 0, "1": 0},
		Recent:       []models.Rating{},
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Score
		st.TotalRatings++
		if key := scoreKey(r.Score); key != "" {
			st.Distribution[key]++
		}
	}

	if st.TotalRatings > 0 {
		avg := float64(sum) / float64(st.TotalRatings)
		st.AverageScore = float64(int64(avg*100+0.5)) / 100
	}

	sorted := make([]models.Rating, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > RecentReviews {
		sorted = sorted[:RecentReviews]
	}
	st.Recent = append(st.Recent, sorted...)

	return st
}

func scoreKey(score int) string {
	if score < 1 || score > 5 {
		return ""
	}
	return strconv.Itoa(score)
}

type Filter struct {
	BarberID uint
	UserID   uint
}

type Repository interface {
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	Get(ctx context.Context, id uint) (*models.Rating, error)
	List(ctx context.Context, f Filter) ([]models.Rating, error)
	Create(ctx context.Context, r *models.Rating) error
	Update(ctx context.Context, r *models.Rating) error
	Delete(ctx context.Context, id uint) error
}
