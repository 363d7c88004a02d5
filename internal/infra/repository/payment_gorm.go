package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).Preload("Service").First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *PaymentGormRepository) Get(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Appointment.Service").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) List(ctx context.Context, caller access.Caller) ([]models.Payment, error) {
	var out []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Appointment").
		Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Scopes(access.Scope(caller, "appointments.barber_id", "appointments.client_id")).
		Order("payments.paid_at DESC NULLS LAST, payments.id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentGormRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PaymentGormRepository) Update(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *PaymentGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

var _ domain.Repository = (*PaymentGormRepository)(nil)
