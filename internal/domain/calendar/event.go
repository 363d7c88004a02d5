// Package calendar describes appointments as provider-neutral calendar
// events and the boundary to the external calendar services.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const (
	ProviderGoogle = "google_calendar"

	// EventTimezone is the zone events are created in on the provider side.
	EventTimezone = "America/Mexico_City"

	ReminderMinutes = 30
)

type EventSpec struct {
	Summary         string
	Description     string
	Start           time.Time
	End             time.Time
	Timezone        string
	ReminderMinutes int
}

// Provider creates an event on an external calendar on behalf of the
// holder of accessToken and returns the provider's event id.
type Provider interface {
	Name() string
	CreateEvent(ctx context.Context, accessToken string, ev EventSpec) (string, error)
}

// BuildEvent renders ap. Client and Service must be loaded; a missing
// service renders as "Sin servicio".
func BuildEvent(ap *models.Appointment) EventSpec {
	client := ""
	if ap.Client != nil {
		client = ap.Client.Username
	}

	service := "Sin servicio"
	if ap.Service != nil {
		service = ap.Service.Name
	}

	notes := ap.Notes
	if notes == "" {
		notes = "Sin notas"
	}

	return EventSpec{
		Summary: fmt.Sprintf("Cita con %s", client),
		Description: fmt.Sprintf(
			"Servicio: %s\nCliente: %s\nNotas: %s",
			service, client, notes,
		),
		Start:           ap.StartsAt,
		End:             ap.End(),
		Timezone:        EventTimezone,
		ReminderMinutes: ReminderMinutes,
	}
}

type Repository interface {
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	// FindEvent returns nil, nil when nothing was synced yet.
	FindEvent(ctx context.Context, appointmentID uint, provider string) (*models.CalendarEvent, error)
	CreateEvent(ctx context.Context, ev *models.CalendarEvent) error

	Get(ctx context.Context, id uint) (*models.CalendarEvent, error)
	List(ctx context.Context, caller access.Caller) ([]models.CalendarEvent, error)
	Update(ctx context.Context, ev *models.CalendarEvent) error
	Delete(ctx context.Context, id uint) error
}
