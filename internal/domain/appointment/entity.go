package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const DefaultCancelReason = "No reason provided"

// ===============================
// Domain Actions
// ===============================

// Cancel moves ap to canceled and appends who did it and why to the notes.
func Cancel(ap *models.Appointment, actor, reason string) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancelReason
	}

	ap.Status = string(StatusCanceled)
	ap.Notes = appendNote(ap.Notes, fmt.Sprintf("[CANCELED by %s]: %s", actor, reason))
	return nil
}

func Complete(ap *models.Appointment) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	return nil
}

// Reschedule moves ap to a new start. Availability of the new slot is the
// caller's job and must be settled before calling.
func Reschedule(ap *models.Appointment, to time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	from := ap.StartsAt
	ap.StartsAt = to
	ap.EndsAt = ap.End()
	ap.Notes = appendNote(ap.Notes, fmt.Sprintf(
		"[RESCHEDULED]: %s -> %s",
		from.Format(time.RFC3339),
		to.Format(time.RFC3339),
	))
	return nil
}

func appendNote(notes, line string) string {
	return strings.TrimSpace(notes + "\n" + line)
}
