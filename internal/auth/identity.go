package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Identity is what an external identity provider vouches for.
type Identity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
