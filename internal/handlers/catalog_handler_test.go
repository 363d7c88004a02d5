package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

var (
	adminCaller  = access.Caller{UserID: 1, Username: "admin", Role: role.Admin}
	barberCaller = access.Caller{UserID: 2, Username: "barber", Role: role.Barber}
	clientCaller = access.Caller{UserID: 3, Username: "client", Role: role.Client}
)

// ======================================================
// SERVICES
// ======================================================

func serviceRouter(repo *fakeServices, caller *access.Caller) *gin.Engine {
	h := NewServiceHandler(repo)

	r := gin.New()
	if caller != nil {
		r.Use(asCaller(*caller))
	}
	r.GET("/services", h.List)
	r.GET("/services/:id", h.Get)
	r.POST("/services", h.Create)
	r.PATCH("/services/:id", h.Update)
	r.DELETE("/services/:id", h.Delete)
	return r
}

func seedServices(repo *fakeServices) {
	ctx := context.Background()
	_ = repo.Create(ctx, &models.Service{Name: "Beard", DurationMinutes: 20, Price: decimal.RequireFromString("80"), Active: true})
	_ = repo.Create(ctx, &models.Service{Name: "Haircut", DurationMinutes: 30, Price: decimal.RequireFromString("150"), Active: true})
	_ = repo.Create(ctx, &models.Service{Name: "Retired", DurationMinutes: 30, Price: decimal.RequireFromString("10"), Active: false})
}

func TestServiceHandler_ListHidesInactiveFromAnonymous(t *testing.T) {
	repo := newFakeServices()
	seedServices(repo)

	w := send(serviceRouter(repo, nil), http.MethodGet, "/services?ordering=-price", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[httpresp.ListResponse[models.Service]](t, w)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Haircut", list.Data[0].Name)
	assert.Equal(t, "Beard", list.Data[1].Name)

	w = send(serviceRouter(repo, &adminCaller), http.MethodGet, "/services", nil)
	assert.Equal(t, 3, decode[httpresp.ListResponse[models.Service]](t, w).Total)

	w = send(serviceRouter(repo, nil), http.MethodGet, "/services/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(serviceRouter(repo, nil), http.MethodGet, "/services?ordering=name", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServiceHandler_CreateValidates(t *testing.T) {
	repo := newFakeServices()
	r := serviceRouter(repo, &barberCaller)

	w := send(r, http.MethodPost, "/services", gin.H{"name": "Quick", "duration_minutes": 4, "price": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_duration", errorCode(t, w))

	w = send(r, http.MethodPost, "/services", gin.H{"name": "Odd", "duration_minutes": 30, "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_price", errorCode(t, w))

	w = send(r, http.MethodPost, "/services", gin.H{"name": "Fade", "duration_minutes": 45, "price": "199.90"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[models.Service](t, w)
	assert.True(t, created.Active)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("199.90")))
}

func TestServiceHandler_DeleteIsSoft(t *testing.T) {
	repo := newFakeServices()
	seedServices(repo)

	w := send(serviceRouter(repo, &adminCaller), http.MethodDelete, "/services/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, svc.Active)
}

// ======================================================
// SCHEDULES
// ======================================================

func scheduleRouter(repo *fakeSchedules, caller access.Caller) *gin.Engine {
	h := NewScheduleHandler(repo)

	r := gin.New()
	r.Use(asCaller(caller))
	r.GET("/schedules", h.List)
	r.GET("/schedules/my_schedule", h.MySchedule)
	r.POST("/schedules", h.Create)
	r.POST("/schedules/bulk_create", h.BulkCreate)
	r.PATCH("/schedules/:id", h.Update)
	r.DELETE("/schedules/:id", h.Delete)
	return r
}

func newScheduleRepo() *fakeSchedules {
	repo := newFakeSchedules()
	repo.addUser(adminCaller.UserID, role.Admin)
	repo.addUser(barberCaller.UserID, role.Barber)
	repo.addUser(clientCaller.UserID, role.Client)
	repo.addUser(5, role.Barber)
	return repo
}

func TestScheduleHandler_Create(t *testing.T) {
	tests := []struct {
		name   string
		caller access.Caller
		body   gin.H
		status int
		code   string
	}{
		{
			name:   "barber for self",
			caller: barberCaller,
			body:   gin.H{"barber": 2, "day_of_week": 2, "start_time": "10:00", "end_time": "14:00"},
			status: http.StatusCreated,
		},
		{
			name:   "barber for another barber",
			caller: barberCaller,
			body:   gin.H{"barber": 5, "day_of_week": 2, "start_time": "10:00", "end_time": "14:00"},
			status: http.StatusForbidden,
			code:   "not_permitted",
		},
		{
			name:   "client",
			caller: clientCaller,
			body:   gin.H{"barber": 3, "day_of_week": 2, "start_time": "10:00", "end_time": "14:00"},
			status: http.StatusForbidden,
			code:   "not_permitted",
		},
		{
			name:   "admin for a client account",
			caller: adminCaller,
			body:   gin.H{"barber": 3, "day_of_week": 2, "start_time": "10:00", "end_time": "14:00"},
			status: http.StatusBadRequest,
			code:   "not_a_barber",
		},
		{
			name:   "end before start",
			caller: adminCaller,
			body:   gin.H{"barber": 5, "day_of_week": 2, "start_time": "14:00", "end_time": "10:00"},
			status: http.StatusBadRequest,
			code:   "invalid_interval",
		},
		{
			name:   "malformed clock",
			caller: adminCaller,
			body:   gin.H{"barber": 5, "day_of_week": 2, "start_time": "9am", "end_time": "10:00"},
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(scheduleRouter(newScheduleRepo(), tt.caller), http.MethodPost, "/schedules", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
			}
		})
	}
}

func TestScheduleHandler_BulkCreatePartial(t *testing.T) {
	repo := newScheduleRepo()
	r := scheduleRouter(repo, adminCaller)

	w := send(r, http.MethodPost, "/schedules/bulk_create", gin.H{"schedules": []gin.H{
		{"barber": 5, "day_of_week": 1, "start_time": "09:00", "end_time": "13:00"},
		{"barber": 5, "day_of_week": 1, "start_time": "15:00", "end_time": "14:00"},
		{"barber": 3, "day_of_week": 2, "start_time": "09:00", "end_time": "13:00"},
		{"barber": 5, "day_of_week": 2, "start_time": "09:00", "end_time": "13:00"},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[BulkScheduleResponse](t, w)
	assert.Equal(t, 2, resp.TotalCreated)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, 1, resp.Errors[0].Index)
	assert.Equal(t, "invalid_interval", resp.Errors[0].Code)
	assert.Equal(t, 2, resp.Errors[1].Index)
	assert.Equal(t, "not_a_barber", resp.Errors[1].Code)
	assert.Len(t, repo.byID, 2)

	w = send(r, http.MethodPost, "/schedules/bulk_create", gin.H{"schedules": []gin.H{
		{"barber": 3, "day_of_week": 2, "start_time": "09:00", "end_time": "13:00"},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, decode[BulkScheduleResponse](t, w).TotalCreated)
}

func TestScheduleHandler_MyScheduleAndVisibility(t *testing.T) {
	repo := newScheduleRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, &models.Schedule{BarberID: 2, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true})
	_ = repo.Create(ctx, &models.Schedule{BarberID: 2, DayOfWeek: 3, StartTime: "09:00", EndTime: "12:00", Active: false})
	_ = repo.Create(ctx, &models.Schedule{BarberID: 5, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true})

	w := send(scheduleRouter(repo, barberCaller), http.MethodGet, "/schedules/my_schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[httpresp.ListResponse[models.Schedule]](t, w).Total)

	w = send(scheduleRouter(repo, clientCaller), http.MethodGet, "/schedules/my_schedule", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(scheduleRouter(repo, clientCaller), http.MethodGet, "/schedules?barber_id=2", nil)
	assert.Equal(t, 1, decode[httpresp.ListResponse[models.Schedule]](t, w).Total)

	w = send(scheduleRouter(repo, adminCaller), http.MethodGet, "/schedules?barber_id=2", nil)
	assert.Equal(t, 2, decode[httpresp.ListResponse[models.Schedule]](t, w).Total)
}

func TestScheduleHandler_UpdateKeepsOwner(t *testing.T) {
	repo := newScheduleRepo()
	_ = repo.Create(context.Background(), &models.Schedule{BarberID: 5, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true})

	w := send(scheduleRouter(repo, barberCaller), http.MethodPatch, "/schedules/1", gin.H{"end_time": "13:00"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(scheduleRouter(repo, adminCaller), http.MethodPatch, "/schedules/1", gin.H{"end_time": "08:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_interval", errorCode(t, w))

	w = send(scheduleRouter(repo, adminCaller), http.MethodPatch, "/schedules/1", gin.H{"end_time": "13:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "13:00", repo.byID[1].EndTime)
	assert.Equal(t, uint(5), repo.byID[1].BarberID)
}
