package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

func (r *RatingGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *RatingGormRepository) Get(ctx context.Context, id uint) (*models.Rating, error) {
	var rt models.Rating
	if err := r.db.WithContext(ctx).Preload("User").First(&rt, id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RatingGormRepository) List(ctx context.Context, f domain.Filter) ([]models.Rating, error) {
	q := r.db.WithContext(ctx).Preload("User")
	if f.BarberID != 0 {
		q = q.
			Joins("JOIN appointments ON appointments.id = ratings.appointment_id").
			Where("appointments.barber_id = ?", f.BarberID)
	}
	if f.UserID != 0 {
		q = q.Where("ratings.user_id = ?", f.UserID)
	}

	var out []models.Rating
	if err := q.Order("ratings.created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RatingGormRepository) Create(ctx context.Context, rt *models.Rating) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rt).Error
}

func (r *RatingGormRepository) Update(ctx context.Context, rt *models.Rating) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rt).Error
}

func (r *RatingGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Rating{}, id).Error
}

var _ domain.Repository = (*RatingGormRepository)(nil)
