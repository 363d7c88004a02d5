package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type AppointmentLoader func(ctx context.Context, id uint) (*models.Appointment, error)

// BookingSink tells the barber about every new booking.
type BookingSink struct {
	load   AppointmentLoader
	sender Sender
	loc    *time.Location
}

func NewBookingSink(load AppointmentLoader, sender Sender, loc *time.Location) *BookingSink {
	return &BookingSink{load: load, sender: sender, loc: loc}
}

func (s *BookingSink) Name() string { return "booking_notifier" }

func (s *BookingSink) Handle(ctx context.Context, ev audit.Event) error {
	if ev.Action != audit.ActionAppointmentBooked || ev.EntityID == nil {
		return nil
	}

	ap, err := s.load(ctx, *ev.EntityID)
	if err != nil {
		return fmt.Errorf("load appointment %d: %w", *ev.EntityID, err)
	}

	if ap.Barber == nil || ap.Barber.Profile == nil || ap.Barber.Profile.PhoneNumber == "" {
		log.Debug().Uint("appointment_id", ap.ID).Msg("barber has no phone number, skipping notification")
		return nil
	}

	return s.sender.Send(ctx, ap.Barber.Profile.PhoneNumber, BookingMessage(ap, s.loc))
}

func BookingMessage(ap *models.Appointment, loc *time.Location) string {
	barber, client := "", ""
	if ap.Barber != nil {
		barber = ap.Barber.Username
	}
	if ap.Client != nil {
		client = ap.Client.Username
	}

	service := "-"
	if ap.Service != nil {
		service = ap.Service.Name
	}

	return fmt.Sprintf(
		"Hello %s,\nYou have a new appointment:\n- Client: %s\n- Service: %s\n- Time: %s",
		barber,
		client,
		service,
		ap.StartsAt.In(loc).Format("02/01/2006 15:04"),
	)
}

var _ audit.Sink = (*BookingSink)(nil)
