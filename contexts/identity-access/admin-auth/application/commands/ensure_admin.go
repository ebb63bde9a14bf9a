package commands

import (
	"context"
	"log/slog"

	application "lanvote/contexts/identity-access/admin-auth/application"
	"lanvote/contexts/identity-access/admin-auth/domain/entities"
	"lanvote/contexts/identity-access/admin-auth/domain/valueobjects"
	"lanvote/contexts/identity-access/admin-auth/ports"
)

// EnsureAdminUseCase seeds the bootstrap admin account. An existing account
// keeps its current password.
type EnsureAdminUseCase struct {
	Admins ports.AdminRepository
	Hasher ports.PasswordHasher
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc EnsureAdminUseCase) EnsureDefaultAdmin(ctx context.Context, username string, password string) (bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	name, err := valueobjects.NewUsername(username)
	if err != nil {
		return false, err
	}
	hash, err := uc.Hasher.Hash(password)
	if err != nil {
		return false, err
	}
	created := now(uc.Clock)
	inserted, err := uc.Admins.CreateAdminIfAbsent(ctx, entities.AdminUser{
		Username:     string(name),
		PasswordHash: hash,
		CreatedAt:    created,
		UpdatedAt:    created,
	})
	if err != nil {
		return false, err
	}
	if inserted {
		logger.Info("default admin created",
			"event", "admin_default_created",
			"module", application.ModuleName,
			"layer", "application",
			"username", string(name),
		)
	}
	return inserted, nil
}
