package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/metrics"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
	"github.com/BruksfildServices01/barbershop-api/internal/timezone"
)

// Settings are the booking rules shared by every usecase that places an
// appointment on a barber's agenda.
type Settings struct {
	Location              *time.Location
	RequireEndWithinHours bool
	Now                   func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Settings) options() domain.CheckOptions {
	return domain.CheckOptions{
		Location:   s.Location,
		RequireEnd: s.RequireEndWithinHours,
	}
}

// resolveBarber loads the user and insists on the barber role.
func resolveBarber(ctx context.Context, repo domain.Repository, id uint) (*models.User, error) {
	u, err := repo.GetUser(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("barber_not_found", "Barber not found")
	}
	if err != nil {
		return nil, err
	}

	if u.Role() != role.Barber {
		return nil, httperr.ErrValidation("not_a_barber", "Selected user is not a barber")
	}
	return u, nil
}

// evaluate runs the availability check for a slot against storage.
// excludeID keeps an appointment from conflicting with itself.
func evaluate(
	ctx context.Context,
	repo domain.Repository,
	set Settings,
	barberID uint,
	slot domain.Slot,
	excludeID uint,
) (domain.Availability, error) {

	now := set.now()
	if slot.DurationMinutes <= 0 {
		slot.DurationMinutes = domain.DefaultDurationMinutes
	}

	if slot.Start.Before(now) {
		return domain.Check(now, slot, nil, nil, set.options()), nil
	}

	local := slot.Start
	if set.Location != nil {
		local = slot.Start.In(set.Location)
	}

	schedules, err := repo.ListSchedules(ctx, barberID, timezone.ISOWeekday(local))
	if err != nil {
		return domain.Availability{}, err
	}

	existing, err := repo.ListBookedOverlapping(ctx, barberID, slot.Start, slot.End(), excludeID)
	if err != nil {
		return domain.Availability{}, err
	}

	return domain.Check(now, slot, schedules, existing, set.options()), nil
}

// unavailable turns a negative availability into the error reported to
// the caller and counts it.
func unavailable(a domain.Availability, prefix string) error {
	msg := a.Reason
	if prefix != "" {
		msg = prefix + ": " + a.Reason
	}

	switch a.Reason {
	case domain.ReasonPast:
		metrics.Bookings.WithLabelValues("past").Inc()
		return httperr.ErrValidation("in_the_past", msg)
	case domain.ReasonNotWorking:
		metrics.Bookings.WithLabelValues("outside_hours").Inc()
		return httperr.ErrValidation("outside_working_hours", msg)
	case domain.ReasonConflict:
		metrics.Bookings.WithLabelValues("conflict").Inc()
		if a.ConflictTime != nil {
			msg = fmt.Sprintf("%s at %s", msg, a.ConflictTime.Format(time.RFC3339))
		}
		return httperr.ErrConflict("time_conflict", msg)
	}

	metrics.Bookings.WithLabelValues("rejected").Inc()
	return httperr.ErrConflict("slot_unavailable", msg)
}

// slotTaken is returned when the database constraint caught an overlap
// the application check did not see.
func slotTaken() error {
	metrics.Bookings.WithLabelValues("conflict").Inc()
	return httperr.ErrConflict("time_conflict", domain.ReasonConflict)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound("appointment_not_found", "Appointment not found")
	}
	return err
}
