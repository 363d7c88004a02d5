package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

var mexico = func() *time.Location {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		panic(err)
	}
	return loc
}()

// 2026-10-20 is a Tuesday.
func tuesdayAt(hour, minute int) time.Time {
	return time.Date(2026, time.October, 20, hour, minute, 0, 0, mexico)
}

var (
	testNow = time.Date(2026, time.October, 15, 9, 0, 0, 0, mexico)
	opts    = CheckOptions{Location: mexico}
)

func tuesdayShift(start, end string) models.Schedule {
	return models.Schedule{ID: 1, BarberID: 7, DayOfWeek: 2, StartTime: start, EndTime: end, Active: true}
}

func booked(start time.Time, minutes int) models.Appointment {
	return models.Appointment{
		ID:              99,
		BarberID:        7,
		StartsAt:        start,
		DurationMinutes: minutes,
		Status:          string(StatusBooked),
		Active:          true,
	}
}

func TestCheck_TuesdayExample(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("10:00", "14:00")}
	existing := []models.Appointment{booked(tuesdayAt(10, 0), 30)}

	res := Check(testNow, Slot{Start: tuesdayAt(10, 15), DurationMinutes: 30}, schedules, existing, opts)
	assert.False(t, res.Available)
	assert.Equal(t, ReasonConflict, res.Reason)
	require.NotNil(t, res.ConflictTime)
	assert.True(t, res.ConflictTime.Equal(tuesdayAt(10, 0)))

	res = Check(testNow, Slot{Start: tuesdayAt(10, 30), DurationMinutes: 30}, schedules, existing, opts)
	assert.True(t, res.Available)
	require.NotNil(t, res.Schedule)
	assert.Equal(t, "10:00", res.Schedule.StartTime)
}

func TestCheck_PastIsRejectedRegardlessOfSchedule(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("00:00", "23:59")}
	later := tuesdayAt(12, 0).Add(time.Hour)

	res := Check(later, Slot{Start: tuesdayAt(12, 0), DurationMinutes: 30}, schedules, nil, opts)
	assert.False(t, res.Available)
	assert.Equal(t, ReasonPast, res.Reason)
}

func TestCheck_NotWorking(t *testing.T) {
	schedules := []models.Schedule{
		tuesdayShift("10:00", "12:00"),
		tuesdayShift("15:00", "18:00"),
	}

	for _, start := range []time.Time{
		tuesdayAt(9, 59),
		tuesdayAt(12, 1),
		tuesdayAt(14, 30),
		tuesdayAt(18, 1),
		tuesdayAt(10, 0).AddDate(0, 0, 1),
	} {
		res := Check(testNow, Slot{Start: start, DurationMinutes: 30}, schedules, nil, opts)
		assert.False(t, res.Available, start)
		assert.Equal(t, ReasonNotWorking, res.Reason, start)
	}
}

func TestCheck_ScheduleBoundsAreInclusive(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("10:00", "14:00")}

	assert.True(t, Check(testNow, Slot{Start: tuesdayAt(10, 0)}, schedules, nil, opts).Available)
	assert.True(t, Check(testNow, Slot{Start: tuesdayAt(14, 0)}, schedules, nil, opts).Available)
}

func TestCheck_SecondShiftMatches(t *testing.T) {
	schedules := []models.Schedule{
		tuesdayShift("09:00", "12:00"),
		{ID: 2, BarberID: 7, DayOfWeek: 2, StartTime: "15:00", EndTime: "19:00", Active: true},
	}

	res := Check(testNow, Slot{Start: tuesdayAt(16, 0), DurationMinutes: 45}, schedules, nil, opts)
	require.True(t, res.Available)
	assert.Equal(t, uint(2), res.Schedule.ID)
}

func TestCheck_InactiveScheduleIgnored(t *testing.T) {
	s := tuesdayShift("10:00", "14:00")
	s.Active = false

	res := Check(testNow, Slot{Start: tuesdayAt(11, 0)}, []models.Schedule{s}, nil, opts)
	assert.Equal(t, ReasonNotWorking, res.Reason)
}

func TestCheck_EndPastClosing(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("10:00", "14:00")}
	slot := Slot{Start: tuesdayAt(13, 45), DurationMinutes: 60}

	assert.True(t, Check(testNow, slot, schedules, nil, opts).Available)

	strict := CheckOptions{Location: mexico, RequireEnd: true}
	res := Check(testNow, slot, schedules, nil, strict)
	assert.False(t, res.Available)
	assert.Equal(t, ReasonNotWorking, res.Reason)

	slot.DurationMinutes = 15
	assert.True(t, Check(testNow, slot, schedules, nil, strict).Available)
}

func TestCheck_WeekdayUsesBusinessTimezone(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("18:00", "23:00")}

	// 2026-10-21T01:00Z is Tuesday 19:00 in Mexico City.
	start := time.Date(2026, time.October, 21, 1, 0, 0, 0, time.UTC)
	res := Check(testNow, Slot{Start: start}, schedules, nil, opts)
	assert.True(t, res.Available)
}

func TestCheck_DefaultDuration(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("10:00", "14:00")}
	existing := []models.Appointment{booked(tuesdayAt(10, 29), 30)}

	res := Check(testNow, Slot{Start: tuesdayAt(10, 0)}, schedules, existing, opts)
	assert.Equal(t, ReasonConflict, res.Reason)

	existing = []models.Appointment{booked(tuesdayAt(10, 30), 30)}
	res = Check(testNow, Slot{Start: tuesdayAt(10, 0)}, schedules, existing, opts)
	assert.True(t, res.Available)
}

func TestCheck_LongAppointmentStillConflicts(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("08:00", "20:00")}
	existing := []models.Appointment{booked(tuesdayAt(8, 0), 240)}

	res := Check(testNow, Slot{Start: tuesdayAt(11, 0), DurationMinutes: 30}, schedules, existing, opts)
	assert.Equal(t, ReasonConflict, res.Reason)
}

func TestCheck_IgnoresCanceledAndInactive(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("10:00", "14:00")}

	canceled := booked(tuesdayAt(11, 0), 30)
	canceled.Status = string(StatusCanceled)
	inactive := booked(tuesdayAt(11, 0), 30)
	inactive.Active = false

	res := Check(testNow, Slot{Start: tuesdayAt(11, 0)}, schedules, []models.Appointment{canceled, inactive}, opts)
	assert.True(t, res.Available)
}

func TestCheck_OverlapProperty(t *testing.T) {
	schedules := []models.Schedule{tuesdayShift("08:00", "20:00")}
	existing := []models.Appointment{booked(tuesdayAt(12, 0), 60)}

	for offset := -120; offset <= 120; offset += 5 {
		start := tuesdayAt(12, 0).Add(time.Duration(offset) * time.Minute)
		res := Check(testNow, Slot{Start: start, DurationMinutes: 45}, schedules, existing, opts)

		overlapping := offset > -45 && offset < 60
		if overlapping {
			assert.Equal(t, ReasonConflict, res.Reason, "offset %d", offset)
		} else {
			assert.True(t, res.Available, "offset %d", offset)
		}
	}
}

func TestOverlaps(t *testing.T) {
	a := tuesdayAt(10, 0)
	b := tuesdayAt(10, 30)
	c := tuesdayAt(11, 0)

	assert.False(t, Overlaps(a, b, b, c))
	assert.False(t, Overlaps(b, c, a, b))
	assert.True(t, Overlaps(a, c, b, c))
	assert.True(t, Overlaps(a, c, a.Add(time.Minute), b))
}
