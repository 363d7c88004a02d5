package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	set   Settings
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	set Settings,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		audit: audit,
		set:   set,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	appointmentID uint,
	to time.Time,
) (*models.Appointment, error) {

	ap, err := loadVisible(ctx, uc.repo, caller, appointmentID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && ap.ClientID != caller.UserID {
		return nil, httperr.ErrForbidden("not_permitted", "Only the client or admin can reschedule appointments")
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	from := ap.StartsAt

	err = uc.repo.WithBarberLock(ctx, ap.BarberID, func(tx domain.Repository) error {
		// re-read under the lock; the row may have moved since
		fresh, err := tx.GetAppointment(ctx, ap.ID)
		if err != nil {
			return notFound(err)
		}

		slot := domain.Slot{Start: to, DurationMinutes: fresh.DurationMinutes}
		a, err := evaluate(ctx, tx, uc.set, fresh.BarberID, slot, fresh.ID)
		if err != nil {
			return err
		}
		if !a.Available {
			return unavailable(a, "New time slot is not available")
		}

		if err := domain.Reschedule(fresh, to); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, fresh); err != nil {
			if httperr.IsExclusionConflict(err) {
				return slotTaken()
			}
			return err
		}

		ap = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionAppointmentRescheduled,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": from, "to": to},
	})

	return ap, nil
}
