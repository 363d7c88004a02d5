package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type RatingDTO struct {
	ID            uint      `json:"id"`
	AppointmentID uint      `json:"appointment"`
	UserID        uint      `json:"user"`
	UserName      string    `json:"user_name"`
	Score         int       `json:"score"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewRating(r *models.Rating) RatingDTO {
	out := RatingDTO{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		UserID:        r.UserID,
		Score:         r.Score,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
	if r.User != nil {
		out.UserName = r.User.Username
	}
	return out
}

func NewRatingList(ratings []models.Rating) []RatingDTO {
	out := make([]RatingDTO, 0, len(ratings))
	for i := range ratings {
		out = append(out, NewRating(&ratings[i]))
	}
	return out
}
