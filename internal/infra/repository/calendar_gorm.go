package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

func (r *CalendarGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := preloadAppointment(r.db.WithContext(ctx)).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// FindEvent returns nil, nil when the appointment was never synced to
// provider.
func (r *CalendarGormRepository) FindEvent(ctx context.Context, appointmentID uint, provider string) (*models.CalendarEvent, error) {
	var ev models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("appointment_id = ? AND provider = ?", appointmentID, provider).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *CalendarGormRepository) CreateEvent(ctx context.Context, ev *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ev).Error
}

func (r *CalendarGormRepository) Get(ctx context.Context, id uint) (*models.CalendarEvent, error) {
	var ev models.CalendarEvent
	if err := r.db.WithContext(ctx).Preload("Appointment").First(&ev, id).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *CalendarGormRepository) List(ctx context.Context, caller access.Caller) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	if err := r.db.WithContext(ctx).
		Preload("Appointment").
		Joins("JOIN appointments ON appointments.id = calendar_events.appointment_id").
		Scopes(access.Scope(caller, "appointments.barber_id", "appointments.client_id")).
		Order("calendar_events.id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CalendarGormRepository) Update(ctx context.Context, ev *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ev).Error
}

func (r *CalendarGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CalendarEvent{}, id).Error
}

var _ domain.Repository = (*CalendarGormRepository)(nil)
