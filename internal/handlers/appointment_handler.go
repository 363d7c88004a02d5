package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-api/internal/dto"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barbershop-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucAppointment.CreateAppointment
	check      *ucAppointment.CheckAvailability
	cancel     *ucAppointment.CancelAppointment
	complete   *ucAppointment.CompleteAppointment
	reschedule *ucAppointment.RescheduleAppointment
	queries    *ucAppointment.Queries
	manage     *ucAppointment.Manage
	loc        *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	check *ucAppointment.CheckAvailability,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	queries *ucAppointment.Queries,
	manage *ucAppointment.Manage,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		check:      check,
		cancel:     cancel,
		complete:   complete,
		reschedule: reschedule,
		queries:    queries,
		manage:     manage,
		loc:        loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID        uint   `json:"client_id"`
	BarberID        uint   `json:"barber_id" binding:"required"`
	ServiceID       *uint  `json:"service_id"`
	Datetime        string `json:"appointment_datetime" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	Notes           string `json:"notes"`
}

type CheckAvailabilityRequest struct {
	BarberID        uint   `json:"barber_id" binding:"required"`
	Datetime        string `json:"appointment_datetime" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Datetime string `json:"appointment_datetime" binding:"required"`
}

type UpdateAppointmentRequest struct {
	Notes     *string `json:"notes"`
	ServiceID *uint   `json:"service_id"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	start, err := parseDateTime("appointment_datetime", req.Datetime)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), middleware.Caller(c), ucAppointment.CreateAppointmentInput{
		ClientID:        req.ClientID,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// CHECK AVAILABILITY
// ======================================================

func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	var req CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "barber_id and appointment_datetime are required")
		return
	}

	start, err := parseDateTime("appointment_datetime", req.Datetime)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res, err := h.check.Execute(c.Request.Context(), ucAppointment.CheckAvailabilityInput{
		BarberID:        req.BarberID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// LIST / READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	barberID, err := queryUint(c, "barber_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	from, err := parseDateParam(c, "start_date", h.loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	to, err := parseDateParam(c, "end_date", h.loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if to != nil {
		// end_date is inclusive
		next := to.AddDate(0, 0, 1)
		to = &next
	}

	apps, err := h.queries.List(c.Request.Context(), middleware.Caller(c), ucAppointment.ListInput{
		Status:   c.Query("status"),
		BarberID: barberID,
		From:     from,
		To:       to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentList(apps))
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	apps, err := h.queries.Upcoming(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewAppointmentList(apps))
}

func (h *AppointmentHandler) History(c *gin.Context) {
	apps, err := h.queries.History(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewAppointmentList(apps))
}

func (h *AppointmentHandler) Stats(c *gin.Context) {
	st, err := h.queries.Stats(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, st)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.queries.Get(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ap, err := h.manage.Update(c.Request.Context(), middleware.Caller(c), id, ucAppointment.UpdateInput{
		Notes:     req.Notes,
		ServiceID: req.ServiceID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.manage.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	// the body is optional
	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.InvalidRequest(c, err)
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.Caller(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Appointment canceled successfully",
		"appointment": ap,
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Appointment marked as completed",
		"appointment": ap,
	})
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "appointment_datetime is required")
		return
	}

	to, err := parseDateTime("appointment_datetime", req.Datetime)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), middleware.Caller(c), id, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Appointment rescheduled successfully",
		"appointment": ap,
	})
}
