package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted, StatusRefunded:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status", "Unknown payment status")
}

func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return httperr.ErrValidation("invalid_amount", "Amount cannot be negative")
	}
	return nil
}

// MarkPaid completes any payment that is not completed yet.
func MarkPaid(p *models.Payment, now time.Time) error {
	if Status(p.Status) == StatusCompleted {
		return httperr.ErrBusiness("invalid_state", "Payment is already completed")
	}
	p.Status = string(StatusCompleted)
	p.PaidAt = &now
	return nil
}

func Refund(p *models.Payment) error {
	if Status(p.Status) != StatusCompleted {
		return httperr.ErrBusiness("invalid_state", "Only completed payments can be refunded")
	}
	p.Status = string(StatusRefunded)
	return nil
}

type Stats struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalPayments int             `json:"total_payments"`
	Pending       int             `json:"pending"`
	Completed     int             `json:"completed"`
	Refunded      int             `json:"refunded"`
}

// Summarize sums every payment regardless of status.
func Summarize(payments []models.Payment) Stats {
	st := Stats{TotalAmount: decimal.Zero}
	for _, p := range payments {
		st.TotalAmount = st.TotalAmount.Add(p.Amount)
		st.TotalPayments++
		switch Status(p.Status) {
		case StatusPending:
			st.Pending++
		case StatusCompleted:
			st.Completed++
		case StatusRefunded:
			st.Refunded++
		}
	}
	return st
}

type Checkout struct {
	PreferenceID string
	URL          string
}

// Gateway opens a hosted checkout for a payment.
type Gateway interface {
	CreateCheckout(ctx context.Context, p *models.Payment, title string) (*Checkout, error)
}

type Repository interface {
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	Get(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, caller access.Caller) ([]models.Payment, error)
	Create(ctx context.Context, p *models.Payment) error
	Update(ctx context.Context, p *models.Payment) error
	Delete(ctx context.Context, id uint) error
}
