package models

import "time"

// Schedule is one working interval of a barber on an ISO weekday
// (Monday=1 .. Sunday=7). Times are "15:04" wall clock in the business
// timezone. A barber may hold several entries per day.
type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint  `gorm:"not null;index:idx_schedule_barber_day" json:"barber"`
	Barber   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DayOfWeek int    `gorm:"not null;index:idx_schedule_barber_day" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Active    bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
