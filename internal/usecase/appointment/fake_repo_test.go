package appointment

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

// =============================================================================
// In-memory Repository
// =============================================================================

type fakeRepo struct {
	users        map[uint]*models.User
	services     map[uint]*models.Service
	schedules    []models.Schedule
	appointments map[uint]*models.Appointment
	nextID       uint

	locks      []uint
	createErr  error
	updateErr  error
	serviceErr error

	// onLock runs once, before the next locked section, standing in for a
	// request that committed in between.
	onLock func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        map[uint]*models.User{},
		services:     map[uint]*models.Service{},
		appointments: map[uint]*models.Appointment{},
		nextID:       100,
	}
}

func (f *fakeRepo) addUser(id uint, name string, r role.Role) *models.User {
	u := &models.User{ID: id, Username: name, Profile: &models.Profile{UserID: id, Role: r, Active: true}}
	f.users[id] = u
	return u
}

func (f *fakeRepo) addAppointment(ap models.Appointment) *models.Appointment {
	if ap.ID == 0 {
		f.nextID++
		ap.ID = f.nextID
	}
	if ap.Status == "" {
		ap.Status = string(domain.StatusBooked)
	}
	ap.Active = true
	ap.EndsAt = ap.End()
	f.appointments[ap.ID] = &ap
	return f.appointments[ap.ID]
}

func (f *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	s, ok := f.services[id]
	if !ok || !s.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeRepo) ListSchedules(_ context.Context, barberID uint, day int) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.schedules {
		if s.BarberID == barberID && s.DayOfWeek == day && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBookedOverlapping(_ context.Context, barberID uint, start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.sorted() {
		if ap.BarberID != barberID || ap.ID == excludeID || ap.Status != string(domain.StatusBooked) || !ap.Active {
			continue
		}
		if ap.StartsAt.Before(end) && ap.End().After(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) WithBarberLock(_ context.Context, barberID uint, fn func(tx domain.Repository) error) error {
	if _, ok := f.users[barberID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if hook := f.onLock; hook != nil {
		f.onLock = nil
		hook()
	}
	f.locks = append(f.locks, barberID)
	return fn(f)
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	ap.ID = f.nextID
	ap.EndsAt = ap.End()
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	ap.EndsAt = ap.End()
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	if _, ok := f.appointments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) ListAppointments(_ context.Context, caller access.Caller, filter domain.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.sorted() {
		if !access.Visible(ap, caller) {
			continue
		}
		if filter.BarberID != 0 && ap.BarberID != filter.BarberID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, ap.Status) {
			continue
		}
		if filter.From != nil && ap.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !ap.StartsAt.Before(*filter.To) {
			continue
		}
		out = append(out, *ap)
	}

	if !filter.Ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeRepo) CountByStatus(_ context.Context, caller access.Caller) (map[domain.Status]int64, error) {
	out := map[domain.Status]int64{}
	for _, ap := range f.appointments {
		if access.Visible(ap, caller) {
			out[domain.Status(ap.Status)]++
		}
	}
	return out, nil
}

func (f *fakeRepo) ListStartingBetween(_ context.Context, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.sorted() {
		if !ap.StartsAt.Before(start) && ap.StartsAt.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) sorted() []*models.Appointment {
	out := make([]*models.Appointment, 0, len(f.appointments))
	for _, ap := range f.appointments {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func hasStatus(list []domain.Status, s string) bool {
	for _, st := range list {
		if string(st) == s {
			return true
		}
	}
	return false
}

var _ domain.Repository = (*fakeRepo)(nil)
