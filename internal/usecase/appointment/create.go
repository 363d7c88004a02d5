package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/metrics"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID        uint
	BarberID        uint
	ServiceID       *uint
	Start           time.Time
	DurationMinutes int
	Notes           string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	set   Settings
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	set Settings,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		set:   set,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Who books: everyone but admins books for themselves
	// --------------------------------------------------
	if !caller.IsAdmin() {
		in.ClientID = caller.UserID
	}
	if in.ClientID == 0 {
		return nil, httperr.ErrValidation("client_required", "client_id is required")
	}

	// --------------------------------------------------
	// 2. Barber
	// --------------------------------------------------
	if _, err := resolveBarber(ctx, uc.repo, in.BarberID); err != nil {
		return nil, err
	}

	var created *models.Appointment

	// --------------------------------------------------
	// 3. Check and insert under the barber lock
	// --------------------------------------------------
	err := uc.repo.WithBarberLock(ctx, in.BarberID, func(tx domain.Repository) error {
		client, err := tx.GetUser(ctx, in.ClientID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound("client_not_found", "Client not found")
		}
		if err != nil {
			return err
		}
		if client.Role() == role.Barber {
			return httperr.ErrValidation("client_is_barber", "Barbers cannot book appointments as clients")
		}

		duration := in.DurationMinutes
		if in.ServiceID != nil {
			svc, err := tx.GetService(ctx, *in.ServiceID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrValidation("service_not_found", "Service not found or inactive")
			}
			if err != nil {
				return err
			}
			if duration <= 0 {
				duration = svc.DurationMinutes
			}
		}
		if duration <= 0 {
			duration = domain.DefaultDurationMinutes
		}

		slot := domain.Slot{Start: in.Start, DurationMinutes: duration}
		a, err := evaluate(ctx, tx, uc.set, in.BarberID, slot, 0)
		if err != nil {
			return err
		}
		if !a.Available {
			return unavailable(a, "")
		}

		ap := &models.Appointment{
			ClientID:        in.ClientID,
			BarberID:        in.BarberID,
			ServiceID:       in.ServiceID,
			StartsAt:        in.Start,
			DurationMinutes: duration,
			Status:          string(domain.InitialStatus()),
			Notes:           in.Notes,
			Active:          true,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return slotTaken()
			}
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Bookings.WithLabelValues("booked").Inc()

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionAppointmentBooked,
		Entity:   "appointment",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"barber_id": created.BarberID,
			"client_id": created.ClientID,
			"starts_at": created.StartsAt,
		},
	})

	return created, nil
}
