package user

import (
	"context"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type Filter struct {
	OnlyActive bool
	Search     string
}

// Barber is a barber profile with its rating aggregate.
type Barber struct {
	models.User
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

type Repository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)

	// Create stores the user together with its profile.
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, p *models.Profile) error

	List(ctx context.Context, f Filter) ([]models.User, error)
	ListBarbers(ctx context.Context) ([]Barber, error)
}
