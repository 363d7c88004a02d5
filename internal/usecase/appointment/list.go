package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const UpcomingLimit = 10

type ListInput struct {
	Status   string
	BarberID uint
	From     *time.Time
	To       *time.Time
}

// Queries groups the read side of appointments. Every method applies the
// caller's visibility.
type Queries struct {
	repo domain.Repository
	now  func() time.Time
}

func NewQueries(repo domain.Repository, set Settings) *Queries {
	return &Queries{repo: repo, now: set.now}
}

func (q *Queries) List(ctx context.Context, caller access.Caller, in ListInput) ([]models.Appointment, error) {
	f := domain.ListFilter{
		BarberID: in.BarberID,
		From:     in.From,
		To:       in.To,
	}
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Statuses = []domain.Status{st}
	}
	return q.repo.ListAppointments(ctx, caller, f)
}

// Upcoming lists the next booked appointments, soonest first.
func (q *Queries) Upcoming(ctx context.Context, caller access.Caller) ([]models.Appointment, error) {
	now := q.now()
	return q.repo.ListAppointments(ctx, caller, domain.ListFilter{
		Statuses:  []domain.Status{domain.StatusBooked},
		From:      &now,
		Limit:     UpcomingLimit,
		Ascending: true,
	})
}

// History lists finished appointments, most recent first.
func (q *Queries) History(ctx context.Context, caller access.Caller) ([]models.Appointment, error) {
	return q.repo.ListAppointments(ctx, caller, domain.ListFilter{
		Statuses: []domain.Status{domain.StatusCompleted, domain.StatusCanceled},
	})
}

func (q *Queries) Get(ctx context.Context, caller access.Caller, id uint) (*models.Appointment, error) {
	return loadVisible(ctx, q.repo, caller, id)
}

type Stats struct {
	Total     int64 `json:"total"`
	Booked    int64 `json:"booked"`
	Completed int64 `json:"completed"`
	Canceled  int64 `json:"canceled"`
}

func (q *Queries) Stats(ctx context.Context, caller access.Caller) (*Stats, error) {
	counts, err := q.repo.CountByStatus(ctx, caller)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Booked:    counts[domain.StatusBooked],
		Completed: counts[domain.StatusCompleted],
		Canceled:  counts[domain.StatusCanceled],
	}
	for _, n := range counts {
		st.Total += n
	}
	return st, nil
}

// ======================================================
// Update / Delete
// ======================================================

type UpdateInput struct {
	Notes     *string
	ServiceID *uint
}

type Manage struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewManage(repo domain.Repository, audit *audit.Dispatcher) *Manage {
	return &Manage{repo: repo, audit: audit}
}

// Update edits the free-form parts of an appointment. Time, barber and
// status only change through their dedicated actions.
func (uc *Manage) Update(ctx context.Context, caller access.Caller, id uint, in UpdateInput) (*models.Appointment, error) {
	ap, err := loadVisible(ctx, uc.repo, caller, id)
	if err != nil {
		return nil, err
	}

	var svc *models.Service
	if in.ServiceID != nil {
		if !caller.IsAdmin() {
			return nil, httperr.ErrForbidden("not_permitted", "Only admins can change the service of an appointment")
		}
		svc, err = uc.repo.GetService(ctx, *in.ServiceID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrValidation("service_not_found", "Service not found or inactive")
		}
		if err != nil {
			return nil, err
		}
	}

	return updateLocked(ctx, uc.repo, ap, func(fresh *models.Appointment) error {
		if svc != nil {
			fresh.ServiceID = &svc.ID
			fresh.Service = svc
		}
		if in.Notes != nil {
			fresh.Notes = *in.Notes
		}
		return nil
	})
}

func (uc *Manage) Delete(ctx context.Context, caller access.Caller, id uint) error {
	if !caller.IsAdmin() {
		return httperr.ErrForbidden("not_permitted", "Only admins can delete appointments")
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionAppointmentDeleted,
		Entity:   "appointment",
		EntityID: &id,
	})
	return nil
}
