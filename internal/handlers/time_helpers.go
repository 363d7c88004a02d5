package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-api/internal/httperr"
	"github.com/BruksfildServices01/barbershop-api/internal/timezone"
)

const dateLayout = "2006-01-02"

// parseDateParam reads a YYYY-MM-DD query value as midnight in loc.
// An absent value is nil.
func parseDateParam(c *gin.Context, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}

	d, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", key+" must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

// parseDateTime requires an RFC3339 instant with an explicit offset.
func parseDateTime(field, raw string) (time.Time, error) {
	t, err := timezone.ParseAware(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, httperr.ErrValidation(
			"invalid_datetime",
			"Invalid "+field+". Use ISO format with an offset: YYYY-MM-DDTHH:MM:SS±HH:MM",
		)
	}
	return t, nil
}

func queryUint(c *gin.Context, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, httperr.ErrValidation("invalid_"+key, key+" must be a positive integer")
	}
	return uint(n), nil
}

// paramID reads the :id path parameter, answering 400 itself when it is
// not a positive integer.
func paramID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(n), true
}
