package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type sent struct{ to, body string }

type fakeSender struct{ sent []sent }

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	f.sent = append(f.sent, sent{to, body})
	return nil
}

func appointmentWithBarberPhone(phone string) *models.Appointment {
	return &models.Appointment{
		ID:       4,
		StartsAt: time.Date(2026, time.October, 20, 16, 30, 0, 0, time.UTC),
		Barber: &models.User{
			Username: "mario",
			Profile:  &models.Profile{PhoneNumber: phone},
		},
		Client:  &models.User{Username: "lucia"},
		Service: &models.Service{Name: "Fade"},
	}
}

func TestBookingSink_NotifiesBarber(t *testing.T) {
	sender := &fakeSender{}
	loc, _ := time.LoadLocation("America/Mexico_City")
	load := func(context.Context, uint) (*models.Appointment, error) {
		return appointmentWithBarberPhone("+5215550000000"), nil
	}

	id := uint(4)
	sink := NewBookingSink(load, sender, loc)
	require.NoError(t, sink.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentBooked, EntityID: &id}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+5215550000000", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "- Client: lucia")
	assert.Contains(t, sender.sent[0].body, "- Service: Fade")
	assert.Contains(t, sender.sent[0].body, "20/10/2026 10:30")
}

func TestBookingSink_IgnoresOtherEventsAndMissingPhone(t *testing.T) {
	sender := &fakeSender{}
	calls := 0
	load := func(context.Context, uint) (*models.Appointment, error) {
		calls++
		return appointmentWithBarberPhone(""), nil
	}

	id := uint(4)
	sink := NewBookingSink(load, sender, time.UTC)

	require.NoError(t, sink.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentCanceled, EntityID: &id}))
	assert.Zero(t, calls)

	require.NoError(t, sink.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentBooked, EntityID: &id}))
	assert.Equal(t, 1, calls)
	assert.Empty(t, sender.sent)
}

func TestBookingSink_LoadError(t *testing.T) {
	load := func(context.Context, uint) (*models.Appointment, error) {
		return nil, errors.New("db gone")
	}

	id := uint(9)
	sink := NewBookingSink(load, &fakeSender{}, time.UTC)
	assert.Error(t, sink.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentBooked, EntityID: &id}))
}

func TestNewSender_FallsBackToLog(t *testing.T) {
	_, ok := NewSender("", "", "").(LogSender)
	assert.True(t, ok)

	_, ok = NewSender("AC123", "token", "+15550000000").(*TwilioSender)
	assert.True(t, ok)
}
