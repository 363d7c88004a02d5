package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barbershop-api/internal/infra/notify"
	"github.com/BruksfildServices01/barbershop-api/internal/metrics"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type Source interface {
	ListStartingBetween(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
}

// Scheduler texts every client the day before their appointment.
type Scheduler struct {
	src    Source
	sender notify.Sender
	loc    *time.Location
	now    func() time.Time
	cron   *cron.Cron
}

func New(src Source, sender notify.Sender, loc *time.Location) *Scheduler {
	return &Scheduler{
		src:    src,
		sender: sender,
		loc:    loc,
		now:    time.Now,
		cron:   cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the job on spec and starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		sent, err := s.RunOnce(ctx)
		if err != nil {
			log.Error().Err(err).Msg("reminder run failed")
			return
		}
		log.Info().Int("sent", sent).Msg("reminders sent")
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	s.cron.Start()
	log.Info().Str("spec", spec).Msg("reminder scheduler started")
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce sends reminders for every booked appointment of tomorrow in the
// business timezone and returns how many were delivered.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	today := s.now().In(s.loc)
	start := time.Date(today.Year(), today.Month(), today.Day()+1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	apps, err := s.src.ListStartingBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range apps {
		ap := &apps[i]
		if ap.Client == nil || ap.Client.Profile == nil || ap.Client.Profile.PhoneNumber == "" {
			continue
		}

		if err := s.sender.Send(ctx, ap.Client.Profile.PhoneNumber, Message(ap, s.loc)); err != nil {
			log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("reminder not delivered")
			continue
		}
		sent++
		metrics.RemindersSent.Inc()
	}
	return sent, nil
}

func Message(ap *models.Appointment, loc *time.Location) string {
	barber := ""
	if ap.Barber != nil {
		barber = ap.Barber.Username
	}
	return fmt.Sprintf(
		"Reminder: your appointment with %s is tomorrow at %s.",
		barber,
		ap.StartsAt.In(loc).Format("15:04"),
	)
}
