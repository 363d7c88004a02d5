package timezone

import (
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is where calendar events are rendered and schedules
// are read when nothing else is configured.
const DefaultTimezone = "America/Mexico_City"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseAware parses an RFC 3339 instant. Inputs without an explicit offset
// are rejected.
func ParseAware(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ISOWeekday returns Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}
