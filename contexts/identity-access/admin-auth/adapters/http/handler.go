package httpadapter

import (
	"context"
	"log/slog"

	"lanvote/contexts/identity-access/admin-auth/application/commands"
	"lanvote/contexts/identity-access/admin-auth/application/queries"
	httptransport "lanvote/contexts/identity-access/admin-auth/transport/http"
)

type Handler struct {
	Login          commands.LoginUseCase
	ChangePassword commands.ChangePasswordUseCase
	Authenticate   queries.AuthenticateUseCase
	Logger         *slog.Logger
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	session, err := h.Login.Login(ctx, commands.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (h Handler) ChangePasswordHandler(
	ctx context.Context,
	username string,
	req httptransport.ChangePasswordRequest,
) (httptransport.ChangePasswordResponse, error) {
	err := h.ChangePassword.ChangePassword(ctx, commands.ChangePasswordCommand{
		Username:        username,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return httptransport.ChangePasswordResponse{}, err
	}
	return httptransport.ChangePasswordResponse{Changed: true}, nil
}

// AuthenticateHandler returns the admin username bound to a bearer token.
func (h Handler) AuthenticateHandler(ctx context.Context, token string) (string, error) {
	return h.Authenticate.Authenticate(ctx, token)
}
