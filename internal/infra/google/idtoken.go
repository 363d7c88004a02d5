package google

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"

	"github.com/BruksfildServices01/barbershop-api/internal/auth"
)

// IDTokenVerifier checks Google sign-in id tokens issued for clientID.
type IDTokenVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	if v.clientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}

	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, err
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*auth.Identity, error) {
	email, _ := p.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token carries no email")
	}

	given, _ := p.Claims["given_name"].(string)
	family, _ := p.Claims["family_name"].(string)

	return &auth.Identity{
		Subject:   p.Subject,
		Email:     email,
		FirstName: given,
		LastName:  family,
	}, nil
}

var _ auth.IdentityVerifier = (*IDTokenVerifier)(nil)
