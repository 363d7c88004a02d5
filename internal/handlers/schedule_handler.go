package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type ScheduleHandler struct {
	schedules schedule.Repository
}

func NewScheduleHandler(schedules schedule.Repository) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

type UpdateScheduleRequest struct {
	DayOfWeek *int    `json:"day_of_week"`
	StartTime *string `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string `json:"end_time" binding:"omitempty,clock"`
	Active    *bool   `json:"active"`
}

type BulkScheduleRequest struct {
	Schedules []schedule.Entry `json:"schedules" binding:"required,min=1"`
}

type BulkError struct {
	Index int    `json:"index"`
	Code  string `json:"error_code"`
	Error string `json:"message"`
}

type BulkScheduleResponse struct {
	Created      []models.Schedule `json:"created"`
	Errors       []BulkError       `json:"errors"`
	TotalCreated int               `json:"total_created"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *ScheduleHandler) requireBarber(ctx context.Context, barberID uint) error {
	u, err := h.schedules.GetUser(ctx, barberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrValidation("barber_not_found", "Barber not found")
	}
	if err != nil {
		return err
	}
	if u.Role() != role.Barber {
		return httperr.ErrValidation("not_a_barber", "User must have barber role")
	}
	return nil
}

func (h *ScheduleHandler) load(c *gin.Context) (*models.Schedule, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	s, err := h.schedules.Get(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "schedule_not_found", "Schedule not found")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return s, true
}

func (h *ScheduleHandler) create(ctx context.Context, caller access.Caller, e schedule.Entry) (*models.Schedule, error) {
	if err := schedule.CanManage(caller, e.BarberID); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := h.requireBarber(ctx, e.BarberID); err != nil {
		return nil, err
	}

	s := e.Model()
	if err := h.schedules.Create(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ScheduleHandler) List(c *gin.Context) {
	caller := middleware.Caller(c)

	barberID, err := queryUint(c, "barber_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	list, err := h.schedules.List(c.Request.Context(), schedule.Filter{
		BarberID:   barberID,
		OnlyActive: !caller.IsAdmin(),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	if !s.Active && !middleware.Caller(c).IsAdmin() {
		httperr.NotFound(c, "schedule_not_found", "Schedule not found")
		return
	}

	httpresp.OK(c, s)
}

func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	caller := middleware.Caller(c)
	if caller.Role != role.Barber {
		httperr.Forbidden(c, "not_permitted", "Only barbers have schedules")
		return
	}

	list, err := h.schedules.List(c.Request.Context(), schedule.Filter{BarberID: caller.UserID})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req schedule.Entry
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	s, err := h.create(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

// BulkCreate keeps every valid entry and reports the rest by index.
func (h *ScheduleHandler) BulkCreate(c *gin.Context) {
	var req BulkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	caller := middleware.Caller(c)
	ctx := c.Request.Context()

	resp := BulkScheduleResponse{
		Created: []models.Schedule{},
		Errors:  []BulkError{},
	}

	for i, e := range req.Schedules {
		s, err := h.create(ctx, caller, e)
		if err != nil {
			be := BulkError{Index: i, Code: "invalid_schedule", Error: err.Error()}
			if b, ok := httperr.AsBusiness(err); ok {
				be.Code, be.Error = b.Code, b.Message
			} else {
				be.Error = fmt.Sprintf("could not create schedule: %v", err)
			}
			resp.Errors = append(resp.Errors, be)
			continue
		}
		resp.Created = append(resp.Created, *s)
	}
	resp.TotalCreated = len(resp.Created)

	if resp.TotalCreated == 0 {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	httpresp.Created(c, resp)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := schedule.CanManage(middleware.Caller(c), s.BarberID); err != nil {
		httperr.Respond(c, err)
		return
	}

	e := schedule.Entry{
		BarberID:  s.BarberID,
		DayOfWeek: s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Active:    &s.Active,
	}
	if req.DayOfWeek != nil {
		e.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		e.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		e.EndTime = *req.EndTime
	}
	if req.Active != nil {
		e.Active = req.Active
	}

	if err := e.Validate(); err != nil {
		httperr.Respond(c, err)
		return
	}

	updated := e.Model()
	updated.ID = s.ID
	updated.CreatedAt = s.CreatedAt

	if err := h.schedules.Update(c.Request.Context(), &updated); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, updated)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}

	if err := schedule.CanManage(middleware.Caller(c), s.BarberID); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), s.ID); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}
