// Package access holds the single visibility rule shared by every
// role-scoped resource: admins see everything, barbers see records they
// are assigned to, clients see records they booked.
package access

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/role"
)

type Caller struct {
	UserID   uint
	Username string
	Role     role.Role
}

func (c Caller) IsAdmin() bool { return c.Role == role.Admin }

// Owned is implemented by records hanging off an appointment.
type Owned interface {
	BarberUserID() uint
	ClientUserID() uint
}

func Visible(rec Owned, c Caller) bool {
	switch c.Role {
	case role.Admin:
		return true
	case role.Barber:
		return rec.BarberUserID() == c.UserID
	case role.Client:
		return rec.ClientUserID() == c.UserID
	}
	return false
}

// Scope is the query form of Visible. barberCol and clientCol name the
// columns holding the assigned barber and client ids.
func Scope(c Caller, barberCol, clientCol string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch c.Role {
		case role.Admin:
			return db
		case role.Barber:
			return db.Where(barberCol+" = ?", c.UserID)
		case role.Client:
			return db.Where(clientCol+" = ?", c.UserID)
		}
		return db.Where("1 = 0")
	}
}
