package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *ScheduleGormRepository) Get(ctx context.Context, id uint) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleGormRepository) List(ctx context.Context, f domain.Filter) ([]models.Schedule, error) {
	q := r.db.WithContext(ctx)
	if f.BarberID != 0 {
		q = q.Where("barber_id = ?", f.BarberID)
	}
	if f.OnlyActive {
		q = q.Where("active = ?", true)
	}

	var out []models.Schedule
	if err := q.Order("day_of_week ASC, start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) Create(ctx context.Context, s *models.Schedule) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *ScheduleGormRepository) Update(ctx context.Context, s *models.Schedule) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *ScheduleGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Schedule{}, id).Error
}

var _ domain.Repository = (*ScheduleGormRepository)(nil)
