package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusBooked, StatusCompleted, StatusCanceled:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status", fmt.Sprintf("Unknown status %q.", s))
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	switch current {
	case StatusCanceled:
		return httperr.ErrBusiness("invalid_state", "Appointment is already canceled")
	case StatusCompleted:
		return httperr.ErrBusiness("invalid_state", "Cannot cancel completed appointment")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness(
			"invalid_state",
			fmt.Sprintf("Only booked appointments can be completed. Current status: %s", current),
		)
	}
	return nil
}

func CanReschedule(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state", "Only booked appointments can be rescheduled")
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
