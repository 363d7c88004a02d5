package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type CheckAvailabilityInput struct {
	BarberID        uint
	Start           time.Time
	DurationMinutes int
}

type AvailabilityResult struct {
	Available    bool             `json:"available"`
	BarberID     uint             `json:"barber_id"`
	Datetime     time.Time        `json:"datetime"`
	Reason       string           `json:"reason,omitempty"`
	ConflictTime *time.Time       `json:"conflict_time,omitempty"`
	Schedule     *models.Schedule `json:"schedule,omitempty"`
}

type CheckAvailability struct {
	repo domain.Repository
	set  Settings
}

func NewCheckAvailability(repo domain.Repository, set Settings) *CheckAvailability {
	return &CheckAvailability{repo: repo, set: set}
}

// Execute answers whether the barber can take the slot. A negative answer
// is a result, not an error; errors are reserved for an unknown barber or
// a user who is not one.
func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in CheckAvailabilityInput,
) (*AvailabilityResult, error) {

	if _, err := resolveBarber(ctx, uc.repo, in.BarberID); err != nil {
		return nil, err
	}

	a, err := evaluate(ctx, uc.repo, uc.set, in.BarberID, domain.Slot{
		Start:           in.Start,
		DurationMinutes: in.DurationMinutes,
	}, 0)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{
		Available:    a.Available,
		BarberID:     in.BarberID,
		Datetime:     in.Start,
		Reason:       a.Reason,
		ConflictTime: a.ConflictTime,
		Schedule:     a.Schedule,
	}, nil
}
