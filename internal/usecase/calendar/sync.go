package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/metrics"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type SyncInput struct {
	AppointmentID uint
	AccessToken   string
	Provider      string
}

type SyncResult struct {
	Event   *models.CalendarEvent
	Created bool
}

// ======================================================
// USE CASE
// ======================================================

type SyncAppointment struct {
	repo      domain.Repository
	providers map[string]domain.Provider
	audit     *audit.Dispatcher
	now       func() time.Time
}

func NewSyncAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	providers ...domain.Provider,
) *SyncAppointment {
	byName := make(map[string]domain.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &SyncAppointment{
		repo:      repo,
		providers: byName,
		audit:     audit,
		now:       time.Now,
	}
}

// Execute pushes the appointment to the provider once. A second call for
// the same (appointment, provider) returns the stored record untouched.
func (uc *SyncAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	in SyncInput,
) (*SyncResult, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if in.AppointmentID == 0 || in.AccessToken == "" {
		return nil, httperr.ErrValidation("invalid_request", "appointment_id and access_token are required")
	}
	if in.Provider == "" {
		in.Provider = domain.ProviderGoogle
	}

	provider, ok := uc.providers[in.Provider]
	if !ok {
		return nil, httperr.ErrValidation("unknown_provider", "Unsupported calendar provider: "+in.Provider)
	}

	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Appointment and permission
	// --------------------------------------------------
	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found")
	}
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && ap.BarberID != caller.UserID {
		return nil, httperr.ErrForbidden("not_permitted", "Only the assigned barber or admin can sync appointments")
	}

	// --------------------------------------------------
	// 3. Already synced
	// --------------------------------------------------
	existing, err := uc.repo.FindEvent(ctx, ap.ID, in.Provider)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.CalendarSyncs.WithLabelValues("already_synced").Inc()
		return &SyncResult{Event: existing}, nil
	}

	// --------------------------------------------------
	// 4. Push
	// --------------------------------------------------
	externalID, err := provider.CreateEvent(ctx, in.AccessToken, domain.BuildEvent(ap))
	if err != nil {
		metrics.CalendarSyncs.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Uint("appointment_id", ap.ID).Str("provider", in.Provider).Msg("calendar sync failed")
		return nil, httperr.ErrUpstream("calendar_sync_failed", err)
	}

	syncedAt := uc.now()
	ev := &models.CalendarEvent{
		AppointmentID:   ap.ID,
		ExternalEventID: externalID,
		Provider:        in.Provider,
		SyncedAt:        &syncedAt,
	}

	if err := uc.repo.CreateEvent(ctx, ev); err != nil {
		if !httperr.IsExclusionConflict(err) {
			return nil, err
		}
		// a concurrent sync won the unique index
		winner, ferr := uc.repo.FindEvent(ctx, ap.ID, in.Provider)
		if ferr != nil || winner == nil {
			return nil, err
		}
		metrics.CalendarSyncs.WithLabelValues("already_synced").Inc()
		return &SyncResult{Event: winner}, nil
	}

	metrics.CalendarSyncs.WithLabelValues("created").Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionCalendarSynced,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"provider":          in.Provider,
			"external_event_id": externalID,
		},
	})

	return &SyncResult{Event: ev, Created: true}, nil
}

func requireStaff(caller access.Caller) error {
	if caller.Role != role.Barber && caller.Role != role.Admin {
		return httperr.ErrForbidden("not_permitted", "Only barbers and admins can manage calendar events")
	}
	return nil
}
