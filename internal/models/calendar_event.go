package models

import "time"

type CalendarEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint         `gorm:"not null;uniqueIndex:idx_calendar_event_appt_provider" json:"appointment"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ExternalEventID string     `gorm:"size:128;not null" json:"external_event_id"`
	Provider        string     `gorm:"size:50;not null;default:'google_calendar';uniqueIndex:idx_calendar_event_appt_provider" json:"provider"`
	SyncedAt        *time.Time `json:"synced_at"`
}

func (e CalendarEvent) BarberUserID() uint {
	if e.Appointment == nil {
		return 0
	}
	return e.Appointment.BarberID
}

func (e CalendarEvent) ClientUserID() uint {
	if e.Appointment == nil {
		return 0
	}
	return e.Appointment.ClientID
}
