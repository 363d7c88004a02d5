package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

type ServiceHandler struct {
	services catalog.Repository
}

func NewServiceHandler(services catalog.Repository) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required,max=120"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes" binding:"required"`
	Price           decimal.Decimal `json:"price"`
	Active          *bool           `json:"active"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=120"`
	Description     *string          `json:"description"`
	DurationMinutes *int             `json:"duration_minutes"`
	Price           *decimal.Decimal `json:"price"`
	Active          *bool            `json:"active"`
}

// --------- Handlers ---------

// List is public. Only admins see inactive services.
func (h *ServiceHandler) List(c *gin.Context) {
	caller, _ := middleware.OptionalCaller(c)

	order := strings.TrimSpace(c.DefaultQuery("ordering", "price"))
	if order != "price" && order != "-price" {
		httperr.BadRequest(c, "invalid_ordering", "ordering must be price or -price")
		return
	}

	services, err := h.services.List(c.Request.Context(), catalog.Filter{
		OnlyActive: !caller.IsAdmin(),
		Search:     strings.TrimSpace(c.Query("search")),
		Order:      order,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	caller, _ := middleware.OptionalCaller(c)

	svc, err := h.services.Get(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !svc.Active && !caller.IsAdmin()) {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Popular(c *gin.Context) {
	popular, err := h.services.Popular(c.Request.Context(), catalog.PopularLimit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, popular)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	if err := catalog.ValidateService(req.DurationMinutes, req.Price); err != nil {
		httperr.Respond(c, err)
		return
	}

	svc := models.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          req.Active == nil || *req.Active,
	}

	if err := h.services.Create(c.Request.Context(), &svc); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	ctx := c.Request.Context()

	svc, err := h.services.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := catalog.ValidateService(svc.DurationMinutes, svc.Price); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.services.Update(ctx, svc); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, svc)
}

// Delete is soft: the service is deactivated so past appointments keep
// pointing at it.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	svc, err := h.services.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	svc.Active = false
	if err := h.services.Update(ctx, svc); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}
