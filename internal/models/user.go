package models

import (
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName    string `gorm:"size:150" json:"first_name"`
	LastName     string `gorm:"size:150" json:"last_name"`
	PasswordHash string `gorm:"size:255" json:"-"`

	Profile *Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role falls back to client when the profile was not loaded.
func (u *User) Role() role.Role {
	if u.Profile == nil {
		return role.Client
	}
	return u.Profile.Role
}

type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Role        role.Role `gorm:"size:10;not null;default:'client'" json:"role"`
	PhoneNumber string    `gorm:"size:20" json:"phone_number"`
	GoogleID    *string   `gorm:"size:128" json:"-"`
	AvatarURL   string    `gorm:"size:512" json:"avatar_url"`
	Active      bool      `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
