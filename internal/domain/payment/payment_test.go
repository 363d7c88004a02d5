package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

func TestMarkPaid(t *testing.T) {
	now := time.Now()
	p := &models.Payment{Status: string(StatusPending)}

	require.NoError(t, MarkPaid(p, now))
	assert.Equal(t, string(StatusCompleted), p.Status)
	require.NotNil(t, p.PaidAt)

	err := MarkPaid(p, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	refunded := &models.Payment{Status: string(StatusRefunded)}
	assert.NoError(t, MarkPaid(refunded, now))
}

func TestRefund(t *testing.T) {
	p := &models.Payment{Status: string(StatusPending)}
	assert.Error(t, Refund(p))

	p.Status = string(StatusCompleted)
	require.NoError(t, Refund(p))
	assert.Equal(t, string(StatusRefunded), p.Status)
	assert.Error(t, Refund(p))
}

func TestSummarize(t *testing.T) {
	st := Summarize([]models.Payment{
		{Amount: decimal.RequireFromString("150.50"), Status: "pending"},
		{Amount: decimal.RequireFromString("200.00"), Status: "completed"},
		{Amount: decimal.RequireFromString("99.99"), Status: "refunded"},
		{Amount: decimal.RequireFromString("0.01"), Status: "completed"},
	})

	assert.True(t, st.TotalAmount.Equal(decimal.RequireFromString("450.50")), st.TotalAmount.String())
	assert.Equal(t, 4, st.TotalPayments)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 2, st.Completed)
	assert.Equal(t, 1, st.Refunded)

	empty := Summarize(nil)
	assert.True(t, empty.TotalAmount.IsZero())
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.Zero))
	assert.Error(t, ValidateAmount(decimal.NewFromInt(-1)))
}
