package validators

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const ClockLayout = "15:04"

// ParseClock turns "HH:MM" into seconds since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}

// Clock is the `clock` binding tag.
func Clock(fl validator.FieldLevel) bool {
	_, err := ParseClock(fl.Field().String())
	return err == nil
}

// Register installs the custom tags on v.
func Register(v *validator.Validate) error {
	return v.RegisterValidation("clock", Clock)
}
