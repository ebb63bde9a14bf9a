package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "lanvote/contexts/identity-access/admin-auth/application"
	"lanvote/contexts/identity-access/admin-auth/domain/entities"
	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
	"lanvote/contexts/identity-access/admin-auth/domain/valueobjects"
	"lanvote/contexts/identity-access/admin-auth/ports"
)

type LoginCommand struct {
	Username string
	Password string
}

type LoginUseCase struct {
	Admins ports.AdminRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	Logger *slog.Logger
}

// Login answers every unknown user and wrong password with
// ErrInvalidCredentials.
func (uc LoginUseCase) Login(ctx context.Context, cmd LoginCommand) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)
	username, err := valueobjects.NewUsername(cmd.Username)
	if err != nil || cmd.Password == "" {
		return entities.Session{}, domainerrors.ErrInvalidCredentials
	}

	admin, err := uc.Admins.GetAdmin(ctx, string(username))
	if err != nil {
		if errors.Is(err, domainerrors.ErrAdminNotFound) {
			logger.Warn("admin login rejected",
				"event", "admin_login_rejected",
				"module", application.ModuleName,
				"layer", "application",
				"username", string(username),
				"reason", "unknown_user",
			)
			return entities.Session{}, domainerrors.ErrInvalidCredentials
		}
		return entities.Session{}, err
	}
	if err := uc.Hasher.Compare(admin.PasswordHash, cmd.Password); err != nil {
		logger.Warn("admin login rejected",
			"event", "admin_login_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"username", string(username),
			"reason", "bad_password",
		)
		return entities.Session{}, domainerrors.ErrInvalidCredentials
	}

	session, err := uc.Tokens.Issue(admin.Username, now(uc.Clock))
	if err != nil {
		logger.Error("admin token issue failed",
			"event", "admin_token_issue_failed",
			"module", application.ModuleName,
			"layer", "application",
			"username", admin.Username,
			"error", err.Error(),
		)
		return entities.Session{}, err
	}
	logger.Info("admin logged in",
		"event", "admin_logged_in",
		"module", application.ModuleName,
		"layer", "application",
		"username", admin.Username,
		"expires_at", session.ExpiresAt,
	)
	return session, nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
