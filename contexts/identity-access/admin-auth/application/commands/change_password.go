package commands

import (
	"context"
	"log/slog"

	application "lanvote/contexts/identity-access/admin-auth/application"
	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
	"lanvote/contexts/identity-access/admin-auth/domain/services"
	"lanvote/contexts/identity-access/admin-auth/ports"
)

type ChangePasswordCommand struct {
	Username        string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type ChangePasswordUseCase struct {
	Admins ports.AdminRepository
	Hasher ports.PasswordHasher
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc ChangePasswordUseCase) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := services.ValidatePasswordChange(cmd.CurrentPassword, cmd.NewPassword, cmd.ConfirmPassword); err != nil {
		return err
	}

	admin, err := uc.Admins.GetAdmin(ctx, cmd.Username)
	if err != nil {
		return err
	}
	if err := uc.Hasher.Compare(admin.PasswordHash, cmd.CurrentPassword); err != nil {
		logger.Warn("admin password change rejected",
			"event", "admin_password_change_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"username", admin.Username,
		)
		return domainerrors.ErrCurrentPasswordWrong
	}

	hash, err := uc.Hasher.Hash(cmd.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.Admins.UpdatePasswordHash(ctx, admin.Username, hash, now(uc.Clock)); err != nil {
		logger.Error("admin password update failed",
			"event", "admin_password_update_failed",
			"module", application.ModuleName,
			"layer", "application",
			"username", admin.Username,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("admin password changed",
		"event", "admin_password_changed",
		"module", application.ModuleName,
		"layer", "application",
		"username", admin.Username,
	)
	return nil
}
