package calendar

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type EventInput struct {
	AppointmentID   uint
	ExternalEventID string
	Provider        string
}

// Events is the plain CRUD side of calendar events, restricted to staff
// and scoped like appointments.
type Events struct {
	repo domain.Repository
	now  func() time.Time
}

func NewEvents(repo domain.Repository) *Events {
	return &Events{repo: repo, now: time.Now}
}

func (uc *Events) List(ctx context.Context, caller access.Caller) ([]models.CalendarEvent, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, caller)
}

func (uc *Events) Get(ctx context.Context, caller access.Caller, id uint) (*models.CalendarEvent, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	ev, err := uc.repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errEventNotFound()
	}
	if err != nil {
		return nil, err
	}
	if !access.Visible(ev, caller) {
		return nil, errEventNotFound()
	}
	return ev, nil
}

func (uc *Events) Create(ctx context.Context, caller access.Caller, in EventInput) (*models.CalendarEvent, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if in.ExternalEventID == "" {
		return nil, httperr.ErrValidation("invalid_request", "external_event_id is required")
	}
	if in.Provider == "" {
		in.Provider = domain.ProviderGoogle
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !access.Visible(ap, caller)) {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found")
	}
	if err != nil {
		return nil, err
	}

	syncedAt := uc.now()
	ev := &models.CalendarEvent{
		AppointmentID:   ap.ID,
		ExternalEventID: in.ExternalEventID,
		Provider:        in.Provider,
		SyncedAt:        &syncedAt,
	}
	if err := uc.repo.CreateEvent(ctx, ev); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrConflict("already_synced", "Appointment already has an event for this provider")
		}
		return nil, err
	}

	ev.Appointment = ap
	return ev, nil
}

func (uc *Events) Update(ctx context.Context, caller access.Caller, id uint, externalID string) (*models.CalendarEvent, error) {
	ev, err := uc.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if externalID == "" {
		return nil, httperr.ErrValidation("invalid_request", "external_event_id is required")
	}

	ev.ExternalEventID = externalID
	if err := uc.repo.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (uc *Events) Delete(ctx context.Context, caller access.Caller, id uint) error {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func errEventNotFound() error {
	return httperr.ErrNotFound("calendar_event_not_found", "Calendar event not found")
}
