package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint         `gorm:"not null;index" json:"appointment"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"appointment_details,omitempty"`

	Amount   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency string          `gorm:"size:8;not null" json:"currency"`
	Status   string          `gorm:"size:10;not null;default:'pending'" json:"status"`
	PaidAt   *time.Time      `json:"paid_at"`
	Provider string          `gorm:"size:50" json:"provider"`

	// Checkout session data from the payment gateway, when one was opened.
	ExternalReference string `gorm:"size:128" json:"external_reference,omitempty"`
	CheckoutURL       string `gorm:"size:512" json:"checkout_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Payment) BarberUserID() uint {
	if p.Appointment == nil {
		return 0
	}
	return p.Appointment.BarberID
}

func (p Payment) ClientUserID() uint {
	if p.Appointment == nil {
		return 0
	}
	return p.Appointment.ClientID
}
