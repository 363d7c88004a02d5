package models

import "time"

type Rating struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint         `gorm:"not null;index" json:"appointment"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Score   int    `gorm:"not null" json:"score"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
