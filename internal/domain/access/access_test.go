package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
)

type record struct{ barber, client uint }

func (r record) BarberUserID() uint { return r.barber }
func (r record) ClientUserID() uint { return r.client }

func TestVisible(t *testing.T) {
	rec := record{barber: 10, client: 20}

	tests := []struct {
		name   string
		caller Caller
		want   bool
	}{
		{"admin sees everything", Caller{UserID: 99, Role: role.Admin}, true},
		{"assigned barber", Caller{UserID: 10, Role: role.Barber}, true},
		{"other barber", Caller{UserID: 11, Role: role.Barber}, false},
		{"booking client", Caller{UserID: 20, Role: role.Client}, true},
		{"other client", Caller{UserID: 21, Role: role.Client}, false},
		{"client id used as barber", Caller{UserID: 20, Role: role.Barber}, false},
		{"unknown role", Caller{UserID: 10, Role: role.Role("guest")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(rec, tt.caller))
		})
	}
}
