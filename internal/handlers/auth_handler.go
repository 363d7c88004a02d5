package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/auth"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/user"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/middleware"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

// RefreshTokens is the server side record of issued refresh tokens.
// auth.RefreshStore implements it over Redis.
type RefreshTokens interface {
	Save(ctx context.Context, userID uint, token string, ttl time.Duration) error
	// Consume spends token atomically; a second use fails.
	Consume(ctx context.Context, userID uint, token string) error
	Revoke(ctx context.Context, userID uint) error
}

type AuthHandler struct {
	users   user.Repository
	tokens  *auth.JWTService
	refresh RefreshTokens
	google  auth.IdentityVerifier

	// checkEmail is nil in development.
	checkEmail func(ctx context.Context, email string) bool
}

func NewAuthHandler(
	users user.Repository,
	tokens *auth.JWTService,
	refresh RefreshTokens,
	google auth.IdentityVerifier,
	checkEmail func(ctx context.Context, email string) bool,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		tokens:     tokens,
		refresh:    refresh,
		google:     google,
		checkEmail: checkEmail,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
	Role    string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --------- Responses ---------

type AuthUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      role.Role `json:"role"`
}

type AuthResponse struct {
	*auth.TokenPair
	User    AuthUser `json:"user"`
	Message string   `json:"message,omitempty"`
	Created *bool    `json:"created,omitempty"`
}

func authUser(u *models.User) AuthUser {
	return AuthUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role(),
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	r, err := signupRole(req.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.checkEmail != nil && !h.checkEmail(ctx, email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	if taken, err := h.users.UsernameTaken(ctx, username); err != nil {
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

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Internal server error.")
		return
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
		Profile:      &models.Profile{Role: r, Active: true},
	}

	if err := h.users.Create(ctx, u); err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	resp.Message = fmt.Sprintf("User registered successfully as %s", r)

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Username and password are required")
		return
	}

	ctx := c.Request.Context()

	u, err := h.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if u.PasswordHash == "" || !auth.CheckPassword(u.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	if u.Profile != nil && !u.Profile.Active {
		httperr.Unauthorized(c, "account_disabled", "This account has been deactivated")
		return
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Google exchanges a Google ID token for a local session, creating the
// account on first sight and linking an existing one by email.
func (h *AuthHandler) Google(c *gin.Context) {
	if h.google == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "google_login_disabled", "Google login is not configured")
		return
	}

	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "id_token is required")
		return
	}

	r, err := signupRole(req.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()

	id, err := h.google.Verify(ctx, req.IDToken)
	if err != nil {
		log.Info().Err(err).Msg("google token rejected")
		httperr.Unauthorized(c, "invalid_google_token", "Invalid Google token")
		return
	}

	email := strings.ToLower(id.Email)
	created := false

	u, err := h.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		username, err := h.freeUsername(ctx, email)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		subject := id.Subject
		u = &models.User{
			Username:  username,
			Email:     email,
			FirstName: id.FirstName,
			LastName:  id.LastName,
			Profile:   &models.Profile{Role: r, GoogleID: &subject, Active: true},
		}
		if err := h.users.Create(ctx, u); err != nil {
			httperr.Respond(c, err)
			return
		}
		created = true

	case err != nil:
		httperr.Respond(c, err)
		return

	default:
		if u.Profile == nil {
			u.Profile = &models.Profile{UserID: u.ID, Role: role.Client, Active: true}
		}
		if u.Profile.GoogleID == nil || *u.Profile.GoogleID == "" {
			subject := id.Subject
			u.Profile.GoogleID = &subject
			if err := h.users.UpdateProfile(ctx, u.Profile); err != nil {
				httperr.Respond(c, err)
				return
			}
		}
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	resp.Created = &created

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "refresh_token is required")
		return
	}

	ctx := c.Request.Context()

	claims, err := h.tokens.Validate(req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Refresh token is invalid or expired")
		return
	}

	if err := h.refresh.Consume(ctx, claims.UserID, req.RefreshToken); err != nil {
		if !errors.Is(err, auth.ErrRefreshRevoked) {
			log.Error().Err(err).Uint("user_id", claims.UserID).Msg("refresh token lookup failed")
		}
		httperr.Unauthorized(c, "invalid_refresh_token", "Refresh token is invalid or expired")
		return
	}

	u, err := h.users.FindByID(ctx, claims.UserID)
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Refresh token is invalid or expired")
		return
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	caller := middleware.Caller(c)

	if err := h.refresh.Revoke(c.Request.Context(), caller.UserID); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// --------- Helpers ---------

// issue signs a new pair and makes its refresh token the only valid one.
func (h *AuthHandler) issue(ctx context.Context, u *models.User) (*AuthResponse, error) {
	pair, err := h.tokens.Pair(u.ID, u.Username, u.Role())
	if err != nil {
		return nil, err
	}

	if err := h.refresh.Save(ctx, u.ID, pair.Refresh, h.tokens.RefreshExpiry()); err != nil {
		return nil, err
	}

	return &AuthResponse{
		TokenPair: pair,
		User:      authUser(u),
	}, nil
}

// freeUsername derives a username from the local part of email, adding a
// numeric suffix until it is unused.
func (h *AuthHandler) freeUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := h.users.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func signupRole(raw string) (role.Role, error) {
	if raw == "" {
		return role.Client, nil
	}

	r, err := role.Parse(raw)
	if err != nil || !r.SelfAssignable() {
		return "", httperr.ErrValidation("invalid_role", "Invalid role")
	}
	return r, nil
}
