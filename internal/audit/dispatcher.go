package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	ActionAppointmentBooked      = "appointment_booked"
	ActionAppointmentCanceled    = "appointment_canceled"
	ActionAppointmentCompleted   = "appointment_completed"
	ActionAppointmentRescheduled = "appointment_rescheduled"
	ActionAppointmentDeleted     = "appointment_deleted"
	ActionPaymentPaid            = "payment_paid"
	ActionPaymentRefunded        = "payment_refunded"
	ActionCalendarSynced         = "calendar_synced"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink receives every dispatched event. Errors are logged and never
// reach the request that produced the event.
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}
	once  sync.Once
}

const queueSize = 100

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Handle(context.Background(), ev); err != nil {
				log.Error().Err(err).
					Str("sink", s.Name()).
					Str("action", ev.Action).
					Msg("audit sink failed")
			}
		}
	}
}

// Dispatch never blocks. A full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	defer func() {
		// dispatch after Close
		if recover() != nil {
			log.Warn().Str("action", ev.Action).Msg("audit dispatcher closed, dropping event")
		}
	}()

	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits until the queued ones have been
// handed to every sink or ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
