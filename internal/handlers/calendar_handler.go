package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	ucCalendar "github.com/BruksfildServices01/barbershop-api/internal/usecase/calendar"
)

type CalendarHandler struct {
	events *ucCalendar.Events
	sync   *ucCalendar.SyncAppointment
}

func NewCalendarHandler(
	events *ucCalendar.Events,
	sync *ucCalendar.SyncAppointment,
) *CalendarHandler {
	return &CalendarHandler{
		events: events,
		sync:   sync,
	}
}

type CreateCalendarEventRequest struct {
	AppointmentID   uint   `json:"appointment" binding:"required"`
	ExternalEventID string `json:"external_event_id" binding:"required,max=128"`
	Provider        string `json:"provider" binding:"omitempty,max=50"`
}

type UpdateCalendarEventRequest struct {
	ExternalEventID string `json:"external_event_id" binding:"required,max=128"`
}

// Presence is checked by the use case so both fields fail with one
// message.
type SyncCalendarRequest struct {
	AppointmentID uint   `json:"appointment_id"`
	AccessToken   string `json:"access_token"`
	Provider      string `json:"provider"`
}

func (h *CalendarHandler) List(c *gin.Context) {
	list, err := h.events.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *CalendarHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ev, err := h.events.Get(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ev)
}

func (h *CalendarHandler) Create(c *gin.Context) {
	var req CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ev, err := h.events.Create(c.Request.Context(), middleware.Caller(c), ucCalendar.EventInput{
		AppointmentID:   req.AppointmentID,
		ExternalEventID: req.ExternalEventID,
		Provider:        req.Provider,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ev)
}

func (h *CalendarHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ev, err := h.events.Update(c.Request.Context(), middleware.Caller(c), id, req.ExternalEventID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ev)
}

func (h *CalendarHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// Sync answers 201 when an event was pushed and 200 when the appointment
// was already synced with that provider.
func (h *CalendarHandler) Sync(c *gin.Context) {
	var req SyncCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	res, err := h.sync.Execute(c.Request.Context(), middleware.Caller(c), ucCalendar.SyncInput{
		AppointmentID: req.AppointmentID,
		AccessToken:   req.AccessToken,
		Provider:      req.Provider,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !res.Created {
		c.JSON(http.StatusOK, gin.H{
			"message": "Appointment already synced",
			"event":   res.Event,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Appointment synced",
		"event":   res.Event,
	})
}
