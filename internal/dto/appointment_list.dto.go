package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type AppointmentListDTO struct {
	ID              uint      `json:"id"`
	ClientID        uint      `json:"client"`
	ClientName      string    `json:"client_name"`
	BarberID        uint      `json:"barber"`
	BarberName      string    `json:"barber_name"`
	ServiceID       *uint     `json:"service"`
	ServiceName     string    `json:"service_name"`
	StartsAt        time.Time `json:"appointment_datetime"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		item := AppointmentListDTO{
			ID:              ap.ID,
			ClientID:        ap.ClientID,
			BarberID:        ap.BarberID,
			ServiceID:       ap.ServiceID,
			StartsAt:        ap.StartsAt,
			DurationMinutes: ap.DurationMinutes,
			Status:          ap.Status,
			CreatedAt:       ap.CreatedAt,
		}
		if ap.Client != nil {
			item.ClientName = ap.Client.Username
		}
		if ap.Barber != nil {
			item.BarberName = ap.Barber.Username
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
		}
		out = append(out, item)
	}
	return out
}
