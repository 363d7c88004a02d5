package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/audit"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const defaultCurrency = "MXN"

type PaymentHandler struct {
	payments payment.Repository
	gateway  payment.Gateway
	audit    *audit.Dispatcher
	now      func() time.Time
}

// NewPaymentHandler takes a nil gateway when no checkout provider is
// configured; checkout then answers 503.
func NewPaymentHandler(
	payments payment.Repository,
	gateway payment.Gateway,
	audit *audit.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		gateway:  gateway,
		audit:    audit,
		now:      time.Now,
	}
}

type CreatePaymentRequest struct {
	AppointmentID uint            `json:"appointment" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,max=8"`
	Provider      string          `json:"provider" binding:"omitempty,max=50"`
	Status        string          `json:"status"`
}

type UpdatePaymentRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency *string          `json:"currency" binding:"omitempty,max=8"`
	Provider *string          `json:"provider" binding:"omitempty,max=50"`
}

// ======================================================
// HELPERS
// ======================================================

func canManagePayment(caller access.Caller, ap *models.Appointment) bool {
	return caller.IsAdmin() || ap.BarberID == caller.UserID
}

// load fetches a payment visible to the caller. Invisible payments are
// reported as missing.
func (h *PaymentHandler) load(c *gin.Context) (*models.Payment, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	p, err := h.payments.Get(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !access.Visible(p, middleware.Caller(c))) {
		httperr.NotFound(c, "payment_not_found", "Payment not found")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return p, true
}

func (h *PaymentHandler) loadManaged(c *gin.Context) (*models.Payment, bool) {
	p, ok := h.load(c)
	if !ok {
		return nil, false
	}
	if p.Appointment == nil || !canManagePayment(middleware.Caller(c), p.Appointment) {
		httperr.Forbidden(c, "not_permitted", "Only admins or the assigned barber can manage payments")
		return nil, false
	}
	return p, true
}

func (h *PaymentHandler) requireAdmin(c *gin.Context, msg string) bool {
	if !middleware.Caller(c).IsAdmin() {
		httperr.Forbidden(c, "not_permitted", msg)
		return false
	}
	return true
}

// ======================================================
// HANDLERS
// ======================================================

func (h *PaymentHandler) List(c *gin.Context) {
	list, err := h.payments.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) Stats(c *gin.Context) {
	list, err := h.payments.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, payment.Summarize(list))
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := payment.ValidateAmount(req.Amount); err != nil {
		httperr.Respond(c, err)
		return
	}

	status := payment.StatusPending
	if req.Status != "" {
		st, err := payment.ParseStatus(req.Status)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		status = st
	}

	caller := middleware.Caller(c)
	ctx := c.Request.Context()

	ap, err := h.payments.GetAppointment(ctx, req.AppointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !access.Visible(ap, caller)) {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !canManagePayment(caller, ap) {
		httperr.Forbidden(c, "not_permitted", "Only admins or the assigned barber can manage payments")
		return
	}

	p := models.Payment{
		AppointmentID: ap.ID,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:        string(status),
		Provider:      strings.TrimSpace(req.Provider),
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if status == payment.StatusCompleted {
		now := h.now()
		p.PaidAt = &now
	}

	if err := h.payments.Create(ctx, &p); err != nil {
		httperr.Respond(c, err)
		return
	}
	p.Appointment = ap

	httpresp.Created(c, p)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	p, ok := h.loadManaged(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if req.Amount != nil {
		if err := payment.ValidateAmount(*req.Amount); err != nil {
			httperr.Respond(c, err)
			return
		}
		p.Amount = *req.Amount
	}
	if req.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Provider != nil {
		p.Provider = strings.TrimSpace(*req.Provider)
	}

	if err := h.payments.Update(c.Request.Context(), p); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	p, ok := h.loadManaged(c)
	if !ok {
		return
	}

	if err := h.payments.Delete(c.Request.Context(), p.ID); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	if !h.requireAdmin(c, "Only admins can mark payments as paid") {
		return
	}

	p, ok := h.load(c)
	if !ok {
		return
	}

	if err := payment.MarkPaid(p, h.now()); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.payments.Update(c.Request.Context(), p); err != nil {
		httperr.Respond(c, err)
		return
	}

	caller := middleware.Caller(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionPaymentPaid,
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]any{"amount": p.Amount.String(), "currency": p.Currency},
	})

	httpresp.OK(c, p)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	if !h.requireAdmin(c, "Only admins can refund payments") {
		return
	}

	p, ok := h.load(c)
	if !ok {
		return
	}

	if err := payment.Refund(p); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.payments.Update(c.Request.Context(), p); err != nil {
		httperr.Respond(c, err)
		return
	}

	caller := middleware.Caller(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   audit.ActionPaymentRefunded,
		Entity:   "payment",
		EntityID: &p.ID,
	})

	httpresp.OK(c, p)
}

// Checkout opens a hosted checkout for a pending payment and remembers
// the gateway reference.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	if h.gateway == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "checkout_unavailable", "No payment gateway is configured")
		return
	}

	p, ok := h.load(c)
	if !ok {
		return
	}

	if payment.Status(p.Status) != payment.StatusPending {
		httperr.BadRequest(c, "invalid_state", "Only pending payments can be checked out")
		return
	}

	title := fmt.Sprintf("Appointment #%d", p.AppointmentID)
	if p.Appointment != nil && p.Appointment.Service != nil {
		title = p.Appointment.Service.Name
	}

	ctx := c.Request.Context()

	co, err := h.gateway.CreateCheckout(ctx, p, title)
	if err != nil {
		httperr.Respond(c, httperr.ErrUpstream("checkout_failed", err))
		return
	}

	p.ExternalReference = co.PreferenceID
	p.CheckoutURL = co.URL
	if err := h.payments.Update(ctx, p); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"payment":      p,
		"checkout_url": co.URL,
	})
}
