package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

func TestBuildEvent(t *testing.T) {
	start := time.Date(2026, time.October, 20, 16, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		Client:          &models.User{Username: "lucia"},
		Service:         &models.Service{Name: "Corte clásico"},
		StartsAt:        start,
		DurationMinutes: 45,
	}

	ev := BuildEvent(ap)

	assert.Equal(t, "Cita con lucia", ev.Summary)
	assert.Equal(t, "Servicio: Corte clásico\nCliente: lucia\nNotas: Sin notas", ev.Description)
	assert.True(t, ev.Start.Equal(start))
	assert.True(t, ev.End.Equal(start.Add(45*time.Minute)))
	assert.Equal(t, "America/Mexico_City", ev.Timezone)
	assert.Equal(t, 30, ev.ReminderMinutes)
}

func TestBuildEvent_WithoutService(t *testing.T) {
	ev := BuildEvent(&models.Appointment{
		Client:          &models.User{Username: "leo"},
		DurationMinutes: 30,
		Notes:           "fade",
	})
	assert.Contains(t, ev.Description, "Servicio: Sin servicio")
	assert.Contains(t, ev.Description, "Notas: fade")
}
