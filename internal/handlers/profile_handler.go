package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/auth"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/user"
	"github.com/BruksfildServices01/barbershop-api/internal/dto"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-api/internal/imaging"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
	"github.com/BruksfildServices01/barbershop-api/internal/validators"
)

// ObjectStore keeps public files. storage.S3 implements it.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type ProfileHandler struct {
	users  user.Repository
	avatar ObjectStore
}

// NewProfileHandler builds the handler. avatar may be nil when no object
// storage is configured; uploads then answer 503.
func NewProfileHandler(users user.Repository, avatar ObjectStore) *ProfileHandler {
	return &ProfileHandler{users: users, avatar: avatar}
}

// --------- Requests ---------

type CreateProfileRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"max=20"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	Role        *string `json:"role"`
	Active      *bool   `json:"active"`
}

// --------- Read ---------

func (h *ProfileHandler) List(c *gin.Context) {
	caller := middleware.Caller(c)

	users, err := h.users.List(c.Request.Context(), user.Filter{
		OnlyActive: !caller.IsAdmin(),
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewProfileList(users))
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	u, err := h.load(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewProfile(u))
}

func (h *ProfileHandler) Me(c *gin.Context) {
	u, err := h.users.FindByID(c.Request.Context(), middleware.Caller(c).UserID)
	if err != nil || u.Profile == nil {
		httperr.NotFound(c, "profile_not_found", "Profile not found. Please contact admin.")
		return
	}

	httpresp.OK(c, dto.NewProfile(u))
}

func (h *ProfileHandler) Barbers(c *gin.Context) {
	barbers, err := h.users.ListBarbers(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewBarberList(barbers))
}

// --------- Write ---------

func (h *ProfileHandler) Create(c *gin.Context) {
	if !middleware.Caller(c).IsAdmin() {
		httperr.Forbidden(c, "not_permitted", "Only admins can create profiles")
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	r, err := role.Parse(req.Role)
	if err != nil {
		httperr.BadRequest(c, "invalid_role", "Invalid role")
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, err := h.users.UsernameTaken(ctx, req.Username); err != nil {
		httperr.Respond(c, err)
		return
	} else if taken {
		httperr.BadRequest(c, "username_taken", "Username already exists")
		return
	}
	if taken, err := h.users.EmailTaken(ctx, email); err != nil {
		httperr.Respond(c, err)
		return
	} else if taken {
		httperr.BadRequest(c, "email_taken", "Email already registered")
		return
	}

	phone, err := validators.NormalizePhone(req.PhoneNumber, validators.DefaultPhoneRegion)
	if err != nil {
		httperr.BadRequest(c, "invalid_phone_number", "Enter a valid phone number")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Internal server error.")
		return
	}

	u := &models.User{
		Username:     req.Username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
		Profile: &models.Profile{
			Role:        r,
			PhoneNumber: phone,
			Active:      true,
		},
	}
	if err := h.users.Create(ctx, u); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewProfile(u))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	caller := middleware.Caller(c)
	ctx := c.Request.Context()

	u, err := h.ownedOrAdmin(ctx, caller, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if (req.Role != nil || req.Active != nil) && !caller.IsAdmin() {
		httperr.Forbidden(c, "not_permitted", "Only admins can change role or status")
		return
	}

	if req.Role != nil {
		r, err := role.Parse(*req.Role)
		if err != nil {
			httperr.BadRequest(c, "invalid_role", "Invalid role")
			return
		}
		u.Profile.Role = r
	}
	if req.Active != nil {
		u.Profile.Active = *req.Active
	}
	if req.PhoneNumber != nil {
		phone, err := validators.NormalizePhone(*req.PhoneNumber, validators.DefaultPhoneRegion)
		if err != nil {
			httperr.BadRequest(c, "invalid_phone_number", "Enter a valid phone number")
			return
		}
		u.Profile.PhoneNumber = phone
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}

	if err := h.users.Update(ctx, u); err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.users.UpdateProfile(ctx, u.Profile); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewProfile(u))
}

// Delete deactivates the profile; the account and its history stay.
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	u, err := h.ownedOrAdmin(ctx, middleware.Caller(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	u.Profile.Active = false
	if err := h.users.UpdateProfile(ctx, u.Profile); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *ProfileHandler) ToggleActive(c *gin.Context) {
	caller := middleware.Caller(c)
	if !caller.IsAdmin() {
		httperr.Forbidden(c, "not_permitted", "Only admins can toggle profile status")
		return
	}

	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	u, err := h.load(ctx, caller, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	u.Profile.Active = !u.Profile.Active
	if err := h.users.UpdateProfile(ctx, u.Profile); err != nil {
		httperr.Respond(c, err)
		return
	}

	state := "deactivated"
	if u.Profile.Active {
		state = "activated"
	}

	httpresp.OK(c, gin.H{
		"id":      u.ID,
		"active":  u.Profile.Active,
		"message": "Profile " + state,
	})
}

// Avatar takes a multipart "avatar" image, normalises it and stores it.
func (h *ProfileHandler) Avatar(c *gin.Context) {
	if h.avatar == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_disabled", "Avatar storage is not configured")
		return
	}

	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	u, err := h.ownedOrAdmin(ctx, middleware.Caller(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUploadSize+1<<20)

	fh, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "avatar file is required")
		return
	}
	if fh.Size > imaging.MaxUploadSize {
		httperr.BadRequest(c, "file_too_large", "Avatar must be 5MB or smaller")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "avatar file is unreadable")
		return
	}
	defer f.Close()

	body, err := imaging.Avatar(f)
	if errors.Is(err, imaging.ErrTooLarge) {
		httperr.BadRequest(c, "file_too_large", "Avatar must be 5MB or smaller")
		return
	}
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Avatar must be a JPEG, PNG, GIF or WebP image")
		return
	}

	key := fmt.Sprintf("avatars/%d/%s.webp", u.ID, uuid.NewString())
	url, err := h.avatar.Put(ctx, key, imaging.AvatarContentType, body)
	if err != nil {
		httperr.Respond(c, httperr.ErrUpstream("avatar_upload_failed", err))
		return
	}

	u.Profile.AvatarURL = url
	if err := h.users.UpdateProfile(ctx, u.Profile); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewProfile(u))
}

// --------- Helpers ---------

// load hides inactive profiles from everyone but admins.
func (h *ProfileHandler) load(ctx context.Context, caller access.Caller, id uint) (*models.User, error) {
	u, err := h.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("profile_not_found", "Profile not found")
	}
	if err != nil {
		return nil, err
	}

	if u.Profile == nil {
		return nil, httperr.ErrNotFound("profile_not_found", "Profile not found")
	}
	if !u.Profile.Active && !caller.IsAdmin() {
		return nil, httperr.ErrNotFound("profile_not_found", "Profile not found")
	}
	return u, nil
}

func (h *ProfileHandler) ownedOrAdmin(ctx context.Context, caller access.Caller, id uint) (*models.User, error) {
	u, err := h.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && caller.UserID != u.ID {
		return nil, httperr.ErrForbidden("not_permitted", "You can only change your own profile")
	}
	return u, nil
}
