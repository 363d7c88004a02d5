package schedule

import (
	"context"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
	"github.com/BruksfildServices01/barbershop-api/internal/validators"
)

type Entry struct {
	BarberID  uint   `json:"barber" binding:"required"`
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
	Active    *bool  `json:"active"`
}

// Validate checks the entry on its own, without looking at the barber.
func (e Entry) Validate() error {
	if e.DayOfWeek < 1 || e.DayOfWeek > 7 {
		return httperr.ErrValidation("invalid_day", "day_of_week must be between 1 (Monday) and 7 (Sunday)")
	}

	start, err := validators.ParseClock(e.StartTime)
	if err != nil {
		return httperr.ErrValidation("invalid_time", err.Error())
	}
	end, err := validators.ParseClock(e.EndTime)
	if err != nil {
		return httperr.ErrValidation("invalid_time", err.Error())
	}

	if start >= end {
		return httperr.ErrValidation("invalid_interval", "End time must be after start time")
	}
	return nil
}

func (e Entry) Model() models.Schedule {
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return models.Schedule{
		BarberID:  e.BarberID,
		DayOfWeek: e.DayOfWeek,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Active:    active,
	}
}

// CanManage reports whether caller may write entries owned by barberID.
func CanManage(c access.Caller, barberID uint) error {
	switch c.Role {
	case role.Admin:
		return nil
	case role.Barber:
		if c.UserID == barberID {
			return nil
		}
		return httperr.ErrForbidden("not_permitted", "Barbers can only manage their own schedule")
	case role.Client:
	}
	return httperr.ErrForbidden("not_permitted", "Only barbers and admins can create schedules")
}

type Filter struct {
	BarberID   uint
	OnlyActive bool
}

type Repository interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.Schedule, error)
	List(ctx context.Context, f Filter) ([]models.Schedule, error)
	Create(ctx context.Context, s *models.Schedule) error
	Update(ctx context.Context, s *models.Schedule) error
	Delete(ctx context.Context, id uint) error
}
