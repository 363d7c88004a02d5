package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := loadVisible(ctx, uc.repo, caller, appointmentID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && ap.ClientID != caller.UserID && ap.BarberID != caller.UserID {
		return nil, httperr.ErrForbidden("not_permitted", "You don't have permission to cancel this appointment")
	}

	ap, err = updateLocked(ctx, uc.repo, ap, func(fresh *models.Appointment) error {
		return domain.Cancel(fresh, caller.Username, reason)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionAppointmentCanceled,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason},
	})

	return ap, nil
}

// loadVisible hides appointments outside the caller's scope behind a 404.
func loadVisible(
	ctx context.Context,
	repo domain.Repository,
	caller access.Caller,
	id uint,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !access.Visible(ap, caller) {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found")
	}
	return ap, nil
}

// updateLocked applies change to a fresh copy of ap read under the barber
// lock and writes it back, so transitions on the same appointment never
// act on a stale status or overwrite each other.
func updateLocked(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	change func(fresh *models.Appointment) error,
) (*models.Appointment, error) {

	var out *models.Appointment
	err := repo.WithBarberLock(ctx, ap.BarberID, func(tx domain.Repository) error {
		fresh, err := tx.GetAppointment(ctx, ap.ID)
		if err != nil {
			return notFound(err)
		}

		if err := change(fresh); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, fresh); err != nil {
			return err
		}

		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
