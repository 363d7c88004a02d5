// Package catalog holds the rules of the service catalog.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480

	PopularLimit = 5
)

func ValidateService(durationMinutes int, price decimal.Decimal) error {
	if durationMinutes < MinDurationMinutes {
		return httperr.ErrValidation("invalid_duration", "Duration must be at least 5 minutes")
	}
	if durationMinutes > MaxDurationMinutes {
		return httperr.ErrValidation("invalid_duration", "Duration cannot exceed 8 hours")
	}
	if price.IsNegative() {
		return httperr.ErrValidation("invalid_price", "Price cannot be negative")
	}
	return nil
}

type Popular struct {
	models.Service
	AppointmentCount int64 `json:"appointment_count"`
}

type Filter struct {
	OnlyActive bool
	Search     string
	// Order is one of "price", "-price" or empty for name order.
	Order string
}

type Repository interface {
	Get(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, f Filter) ([]models.Service, error)
	Create(ctx context.Context, s *models.Service) error
	Update(ctx context.Context, s *models.Service) error
	Popular(ctx context.Context, limit int) ([]Popular, error)
}
