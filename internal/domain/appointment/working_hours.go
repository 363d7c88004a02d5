package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
	"github.com/BruksfildServices01/barbershop-api/internal/timezone"
	"github.com/BruksfildServices01/barbershop-api/internal/validators"
)

// clockOf returns the wall clock of t as seconds since midnight.
func clockOf(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// covers reports whether the schedule entry contains the slot. Both ends
// of the entry are inclusive. When withEnd is false only the start of the
// slot is checked, so a booking may run past closing.
func covers(s models.Schedule, start, end time.Time, withEnd bool) bool {
	if !s.Active || s.DayOfWeek != timezone.ISOWeekday(start) {
		return false
	}

	open, err := validators.ParseClock(s.StartTime)
	if err != nil {
		return false
	}
	closeAt, err := validators.ParseClock(s.EndTime)
	if err != nil {
		return false
	}

	at := clockOf(start)
	if at < open || at > closeAt {
		return false
	}

	if !withEnd {
		return true
	}

	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return false
	}

	return clockOf(end) <= closeAt
}

// MatchSchedule returns the first entry covering the slot, or nil.
func MatchSchedule(
	schedules []models.Schedule,
	start time.Time,
	end time.Time,
	withEnd bool,
) *models.Schedule {
	for i := range schedules {
		if covers(schedules[i], start, end, withEnd) {
			return &schedules[i]
		}
	}
	return nil
}
