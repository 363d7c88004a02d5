package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-api/internal/dto"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type RatingHandler struct {
	ratings rating.Repository
}

func NewRatingHandler(ratings rating.Repository) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type CreateRatingRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Score         int    `json:"score" binding:"required"`
	Comment       string `json:"comment"`
}

type UpdateRatingRequest struct {
	Score   *int    `json:"score"`
	Comment *string `json:"comment"`
}

func (h *RatingHandler) load(c *gin.Context) (*models.Rating, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	r, err := h.ratings.Get(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "rating_not_found", "Rating not found")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return r, true
}

// loadOwned is load restricted to the author or an admin.
func (h *RatingHandler) loadOwned(c *gin.Context) (*models.Rating, bool) {
	r, ok := h.load(c)
	if !ok {
		return nil, false
	}

	caller := middleware.Caller(c)
	if !caller.IsAdmin() && r.UserID != caller.UserID {
		httperr.Forbidden(c, "not_permitted", "You can only change your own ratings")
		return nil, false
	}
	return r, true
}

func (h *RatingHandler) List(c *gin.Context) {
	barberID, err := queryUint(c, "barber_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	list, err := h.ratings.List(c.Request.Context(), rating.Filter{BarberID: barberID})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewRatingList(list))
}

func (h *RatingHandler) Get(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}

	httpresp.OK(c, dto.NewRating(r))
}

func (h *RatingHandler) MyRatings(c *gin.Context) {
	caller := middleware.Caller(c)

	list, err := h.ratings.List(c.Request.Context(), rating.Filter{UserID: caller.UserID})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewRatingList(list))
}

func (h *RatingHandler) BarberStats(c *gin.Context) {
	barberID, err := queryUint(c, "barber_id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if barberID == 0 {
		httperr.BadRequest(c, "barber_id_required", "barber_id is required")
		return
	}

	list, err := h.ratings.List(c.Request.Context(), rating.Filter{BarberID: barberID})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, rating.Summarize(barberID, list))
}

func (h *RatingHandler) Create(c *gin.Context) {
	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := rating.ValidateScore(req.Score); err != nil {
		httperr.Respond(c, err)
		return
	}

	caller := middleware.Caller(c)
	ctx := c.Request.Context()

	ap, err := h.ratings.GetAppointment(ctx, req.AppointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !access.Visible(ap, caller)) {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if appointment.Status(ap.Status) != appointment.StatusCompleted {
		httperr.BadRequest(c, "appointment_not_completed", "Can only rate completed appointments")
		return
	}

	r := models.Rating{
		AppointmentID: ap.ID,
		UserID:        caller.UserID,
		Score:         req.Score,
		Comment:       strings.TrimSpace(req.Comment),
	}
	if err := h.ratings.Create(ctx, &r); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewRating(&r))
}

func (h *RatingHandler) Update(c *gin.Context) {
	r, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if req.Score != nil {
		if err := rating.ValidateScore(*req.Score); err != nil {
			httperr.Respond(c, err)
			return
		}
		r.Score = *req.Score
	}
	if req.Comment != nil {
		r.Comment = strings.TrimSpace(*req.Comment)
	}

	if err := h.ratings.Update(c.Request.Context(), r); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewRating(r))
}

func (h *RatingHandler) Delete(c *gin.Context) {
	r, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if err := h.ratings.Delete(c.Request.Context(), r.ID); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}
