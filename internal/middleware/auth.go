package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-api/internal/auth"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/access"
	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextUserRole = "userRole"
)

// TokenValidator is satisfied by auth.JWTService.
type TokenValidator interface {
	Validate(token, typ string) (*auth.Claims, error)
}

func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header", "Authentication credentials were not provided.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header", "Authorization header must be 'Bearer <token>'.")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(parts[1]), auth.TokenAccess)
		if err != nil {
			abortUnauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		if !claims.Role.Valid() || claims.UserID == 0 {
			abortUnauthorized(c, "invalid_token_payload", "Token is invalid or expired.")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is sent
// and lets anonymous requests through untouched.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if claims, err := tokens.Validate(strings.TrimSpace(parts[1]), auth.TokenAccess); err == nil && claims.Role.Valid() {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUsername, claims.Username)
				c.Set(ContextUserRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, _ := c.Get(ContextUserRole)
		current, _ := r.(role.Role)

		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
			Code:    "not_permitted",
			Message: "You do not have permission to perform this action.",
		})
	}
}

// Caller reads the authenticated identity set by AuthMiddleware.
func Caller(c *gin.Context) access.Caller {
	return access.Caller{
		UserID:   c.MustGet(ContextUserID).(uint),
		Username: c.GetString(ContextUsername),
		Role:     c.MustGet(ContextUserRole).(role.Role),
	}
}

// OptionalCaller is Caller for routes behind OptionalAuth.
func OptionalCaller(c *gin.Context) (access.Caller, bool) {
	if _, ok := c.Get(ContextUserID); !ok {
		return access.Caller{}, false
	}
	return Caller(c), true
}

func abortUnauthorized(c *gin.Context, code, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
		Code:    code,
		Message: msg,
	})
}
