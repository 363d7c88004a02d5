package role

import "fmt"

// Role is the business classification of a user. It is a closed set:
// every switch over Role handles Client, Barber and Admin.
type Role string

const (
	Client Role = "client"
	Barber Role = "barber"
	Admin  Role = "admin"
)

func Parse(s string) (Role, error) {
	switch r := Role(s); r {
	case Client, Barber, Admin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := Parse(string(r))
	return err == nil
}

// SelfAssignable reports whether a user may pick this role at sign-up.
func (r Role) SelfAssignable() bool {
	switch r {
	case Client, Barber:
		return true
	case Admin:
		return false
	}
	return false
}

func (r Role) IsAdmin() bool { return r == Admin }

func (r Role) String() string { return string(r) }
