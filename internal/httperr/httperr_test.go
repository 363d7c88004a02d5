package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespond_Kinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrValidation("invalid_datetime"), http.StatusBadRequest, "invalid_datetime"},
		{ErrBusiness("invalid_state"), http.StatusBadRequest, "invalid_state"},
		{ErrForbidden("not_permitted"), http.StatusForbidden, "not_permitted"},
		{ErrNotFound("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
		{ErrConflict("time_conflict"), http.StatusConflict, "time_conflict"},
		{ErrUnauthorized("invalid_token"), http.StatusUnauthorized, "invalid_token"},
		{ErrUpstream("calendar_failed", errors.New("boom")), http.StatusBadGateway, "calendar_failed"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := respond(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespond_UpstreamMessageIsVerbatim(t *testing.T) {
	_, body := respond(t, ErrUpstream("calendar_failed", errors.New("googleapi: Error 401")))
	assert.Equal(t, "googleapi: Error 401", body.Message)
}

func TestIsBusiness_Wrapped(t *testing.T) {
	err := fmt.Errorf("reschedule: %w", ErrBusiness("invalid_state"))
	assert.True(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(err, "other"))
	assert.False(t, IsBusiness(errors.New("invalid_state"), "invalid_state"))
}

func TestIsExclusionConflict(t *testing.T) {
	assert.True(t, IsExclusionConflict(&pgconn.PgError{Code: "23P01"}))
	assert.True(t, IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsExclusionConflict(errors.New("nope")))
}
