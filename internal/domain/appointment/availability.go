package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const DefaultDurationMinutes = 30

const (
	ReasonPast       = "Cannot book appointments in the past"
	ReasonNotWorking = "Barber is not working at this time"
	ReasonConflict   = "Time slot conflicts with existing appointment"
)

type Slot struct {
	Start           time.Time
	DurationMinutes int
}

func (s Slot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

type CheckOptions struct {
	// Location is the wall clock schedules are written in.
	Location *time.Location
	// RequireEnd also checks that the slot ends within the matched entry.
	RequireEnd bool
}

type Availability struct {
	Available    bool
	Reason       string
	ConflictTime *time.Time
	Schedule     *models.Schedule
}

// Check decides whether slot can be booked given the barber's schedule
// entries and the appointments already on their agenda. It never touches
// storage. Candidates that are not booked and active are ignored, and the
// first overlapping one is reported.
func Check(
	now time.Time,
	slot Slot,
	schedules []models.Schedule,
	existing []models.Appointment,
	opts CheckOptions,
) Availability {

	if slot.DurationMinutes <= 0 {
		slot.DurationMinutes = DefaultDurationMinutes
	}

	if slot.Start.Before(now) {
		return Availability{Reason: ReasonPast}
	}

	loc := opts.Location
	if loc == nil {
		loc = slot.Start.Location()
	}

	start := slot.Start.In(loc)
	end := slot.End().In(loc)

	matched := MatchSchedule(schedules, start, end, opts.RequireEnd)
	if matched == nil {
		return Availability{Reason: ReasonNotWorking}
	}

	for i := range existing {
		c := existing[i]
		if Status(c.Status) != StatusBooked || !c.Active {
			continue
		}
		if Overlaps(slot.Start, slot.End(), c.StartsAt, c.End()) {
			at := c.StartsAt
			return Availability{Reason: ReasonConflict, ConflictTime: &at}
		}
	}

	return Availability{Available: true, Schedule: matched}
}

// Overlaps treats both intervals as half open: [aStart, aEnd) and
// [bStart, bEnd). Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
