package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadVisible(ctx, uc.repo, caller, appointmentID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && ap.BarberID != caller.UserID {
		return nil, httperr.ErrForbidden("not_permitted", "Only the assigned barber or admin can complete appointments")
	}

	ap, err = updateLocked(ctx, uc.repo, ap, func(fresh *models.Appointment) error {
		return domain.Complete(fresh)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionAppointmentCompleted,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
