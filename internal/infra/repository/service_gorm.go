package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) Get(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceGormRepository) List(ctx context.Context, f domain.Filter) ([]models.Service, error) {
	q := r.db.WithContext(ctx)
	if f.OnlyActive {
		q = q.Where("active = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	switch f.Order {
	case "price":
		q = q.Order("price ASC")
	case "-price":
		q = q.Order("price DESC")
	default:
		q = q.Order("name ASC")
	}

	var out []models.Service
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ServiceGormRepository) Create(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceGormRepository) Update(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServiceGormRepository) Popular(ctx context.Context, limit int) ([]domain.Popular, error) {
	var out []domain.Popular
	if err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Select("services.*, COUNT(appointments.id) AS appointment_count").
		Joins("LEFT JOIN appointments ON appointments.service_id = services.id").
		Where("services.active = ?", true).
		Group("services.id").
		Order("appointment_count DESC, services.name ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ domain.Repository = (*ServiceGormRepository)(nil)
