package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/user"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Where(query, arg).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserGormRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserGormRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserGormRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserGormRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserGormRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserGormRepository) Update(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
}

func (r *UserGormRepository) UpdateProfile(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *UserGormRepository) List(ctx context.Context, f domain.Filter) ([]models.User, error) {
	q := r.db.WithContext(ctx).
		Preload("Profile").
		Joins("JOIN profiles ON profiles.user_id = users.id")

	if f.OnlyActive {
		q = q.Where("profiles.active = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"users.username ILIKE ? OR users.email ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ? OR profiles.phone_number ILIKE ?",
			like, like, like, like, like,
		)
	}

	var users []models.User
	if err := q.Order("profiles.created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserGormRepository) ListBarbers(ctx context.Context) ([]domain.Barber, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.role = ? AND profiles.active = ?", role.Barber, true).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	var aggs []struct {
		BarberID      uint
		AverageRating float64
		TotalRatings  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("appointments.barber_id AS barber_id, COALESCE(AVG(ratings.score), 0) AS average_rating, COUNT(ratings.id) AS total_ratings").
		Joins("JOIN appointments ON appointments.id = ratings.appointment_id").
		Group("appointments.barber_id").
		Scan(&aggs).Error; err != nil {
		return nil, err
	}

	byBarber := make(map[uint]int, len(aggs))
	for i, a := range aggs {
		byBarber[a.BarberID] = i
	}

	out := make([]domain.Barber, 0, len(users))
	for _, u := range users {
		b := domain.Barber{User: u}
		if i, ok := byBarber[u.ID]; ok {
			b.AverageRating = float64(int64(aggs[i].AverageRating*100+0.5)) / 100
			b.TotalRatings = aggs[i].TotalRatings
		}
		out = append(out, b)
	}
	return out, nil
}

var _ domain.Repository = (*UserGormRepository)(nil)
