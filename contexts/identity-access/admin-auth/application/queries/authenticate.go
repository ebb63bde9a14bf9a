package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
	"lanvote/contexts/identity-access/admin-auth/ports"
)

type AuthenticateUseCase struct {
	Admins ports.AdminRepository
	Tokens ports.TokenIssuer
	Clock  ports.Clock
}

// Authenticate resolves a bearer token to a username that still exists.
func (uc AuthenticateUseCase) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerrors.ErrUnauthorized
	}
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	username, err := uc.Tokens.Verify(token, now)
	if err != nil {
		return "", domainerrors.ErrUnauthorized
	}
	if _, err := uc.Admins.GetAdmin(ctx, username); err != nil {
		if errors.Is(err, domainerrors.ErrAdminNotFound) {
			return "", domainerrors.ErrUnauthorized
		}
		return "", err
	}
	return username, nil
}
