package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/user"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
	"github.com/BruksfildServices01/barbershop-api/internal/validators"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = validators.Register(v)
	}
}

// ======================================================
// HTTP HELPERS
// ======================================================

// asCaller stands in for AuthMiddleware.
func asCaller(caller access.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, caller.UserID)
		c.Set(middleware.ContextUsername, caller.Username)
		c.Set(middleware.ContextUserRole, caller.Role)
		c.Next()
	}
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sendWithToken(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[httperr.HTTPError](t, w).Code
}

// ======================================================
// USERS
// ======================================================

type fakeUsers struct {
	byID   map[uint]*models.User
	nextID uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uint]*models.User{}, nextID: 1}
}

func (f *fakeUsers) add(username, email string, r role.Role) *models.User {
	u := &models.User{
		Username: username,
		Email:    email,
		Profile:  &models.Profile{Role: r, Active: true},
	}
	_ = f.Create(context.Background(), u)
	return u
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range f.byID {
		if match(u) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUsers) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := f.FindByUsername(ctx, username)
	return err == nil, nil
}

func (f *fakeUsers) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	u.ID = f.nextID
	f.nextID++
	if u.Profile != nil {
		u.Profile.UserID = u.ID
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, p *models.Profile) error {
	if u, ok := f.byID[p.UserID]; ok {
		u.Profile = p
	}
	return nil
}

func (f *fakeUsers) List(_ context.Context, flt user.Filter) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if flt.OnlyActive && (u.Profile == nil || !u.Profile.Active) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) ListBarbers(ctx context.Context) ([]user.Barber, error) {
	users, _ := f.List(ctx, user.Filter{OnlyActive: true})
	var out []user.Barber
	for _, u := range users {
		if u.Role() == role.Barber {
			out = append(out, user.Barber{User: u})
		}
	}
	return out, nil
}

var _ user.Repository = (*fakeUsers)(nil)

// ======================================================
// SERVICES
// ======================================================

type fakeServices struct {
	byID   map[uint]*models.Service
	nextID uint
}

func newFakeServices() *fakeServices {
	return &fakeServices{byID: map[uint]*models.Service{}, nextID: 1}
}

func (f *fakeServices) Get(_ context.Context, id uint) (*models.Service, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeServices) List(_ context.Context, flt catalog.Filter) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.byID {
		if flt.OnlyActive && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if flt.Order == "-price" {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out, nil
}

func (f *fakeServices) Create(_ context.Context, s *models.Service) error {
	s.ID = f.nextID
	f.nextID++
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeServices) Update(_ context.Context, s *models.Service) error {
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeServices) Popular(context.Context, int) ([]catalog.Popular, error) {
	return nil, nil
}

var _ catalog.Repository = (*fakeServices)(nil)

// ======================================================
// SCHEDULES
// ======================================================

type fakeSchedules struct {
	users  map[uint]*models.User
	byID   map[uint]*models.Schedule
	nextID uint
}

func newFakeSchedules() *fakeSchedules {
	return &fakeSchedules{
		users:  map[uint]*models.User{},
		byID:   map[uint]*models.Schedule{},
		nextID: 1,
	}
}

func (f *fakeSchedules) addUser(id uint, r role.Role) {
	f.users[id] = &models.User{ID: id, Profile: &models.Profile{UserID: id, Role: r, Active: true}}
}

func (f *fakeSchedules) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeSchedules) Get(_ context.Context, id uint) (*models.Schedule, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSchedules) List(_ context.Context, flt schedule.Filter) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.byID {
		if flt.BarberID != 0 && s.BarberID != flt.BarberID {
			continue
		}
		if flt.OnlyActive && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSchedules) Create(_ context.Context, s *models.Schedule) error {
	s.ID = f.nextID
	f.nextID++
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSchedules) Update(_ context.Context, s *models.Schedule) error {
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSchedules) Delete(_ context.Context, id uint) error {
	delete(f.byID, id)
	return nil
}

var _ schedule.Repository = (*fakeSchedules)(nil)
