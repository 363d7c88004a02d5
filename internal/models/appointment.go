package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint  `gorm:"not null;index" json:"client_id"`
	Client   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	BarberID uint  `gorm:"not null;index" json:"barber_id"`
	Barber   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber,omitempty"`

	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	StartsAt        time.Time `gorm:"not null;index" json:"appointment_datetime"`
	EndsAt          time.Time `gorm:"not null" json:"ends_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	Status string `gorm:"size:10;not null;default:'booked'" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`
	Active bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeSave(*gorm.DB) error {
	a.EndsAt = a.End()
	return nil
}

func (a *Appointment) End() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

func (a Appointment) BarberUserID() uint { return a.BarberID }
func (a Appointment) ClientUserID() uint { return a.ClientID }
