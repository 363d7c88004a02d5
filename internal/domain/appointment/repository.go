package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type ListFilter struct {
	Statuses []Status
	BarberID uint
	From     *time.Time
	To       *time.Time
	Limit    int
	// Ascending orders by start time, oldest first.
	Ascending bool
}

type Repository interface {
	// -------- Users / Services --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Availability --------
	ListSchedules(
		ctx context.Context,
		barberID uint,
		dayOfWeek int,
	) ([]models.Schedule, error)

	// ListBookedOverlapping returns booked, active appointments of the
	// barber whose interval intersects [start, end). excludeID is skipped
	// when non zero.
	ListBookedOverlapping(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) ([]models.Appointment, error)

	// WithBarberLock runs fn in a transaction holding a row lock on the
	// barber, serialising every booking decision for them.
	WithBarberLock(
		ctx context.Context,
		barberID uint,
		fn func(tx Repository) error,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	ListAppointments(
		ctx context.Context,
		caller access.Caller,
		filter ListFilter,
	) ([]models.Appointment, error)

	CountByStatus(
		ctx context.Context,
		caller access.Caller,
	) (map[Status]int64, error)

	// -------- Reminders --------
	ListStartingBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
