package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/user"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type UserDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileDTO is addressed by the user id; a user has exactly one profile.
type ProfileDTO struct {
	ID          uint      `json:"id"`
	User        UserDTO   `json:"user"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        role.Role `json:"role"`
	PhoneNumber string    `json:"phone_number"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type BarberDTO struct {
	ProfileDTO
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

func NewProfile(u *models.User) ProfileDTO {
	out := ProfileDTO{
		ID: u.ID,
		User: UserDTO{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role(),
		CreatedAt: u.CreatedAt,
	}
	if p := u.Profile; p != nil {
		out.PhoneNumber = p.PhoneNumber
		out.AvatarURL = p.AvatarURL
		out.Active = p.Active
		out.CreatedAt = p.CreatedAt
	}
	return out
}

func NewProfileList(users []models.User) []ProfileDTO {
	out := make([]ProfileDTO, 0, len(users))
	for i := range users {
		out = append(out, NewProfile(&users[i]))
	}
	return out
}

func NewBarberList(barbers []user.Barber) []BarberDTO {
	out := make([]BarberDTO, 0, len(barbers))
	for i := range barbers {
		out = append(out, BarberDTO{
			ProfileDTO:    NewProfile(&barbers[i].User),
			AverageRating: barbers[i].AverageRating,
			TotalRatings:  barbers[i].TotalRatings,
		})
	}
	return out
}
