package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	adminerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
	adminhttp "lanvote/contexts/identity-access/admin-auth/transport/http"
)

type adminContextKey struct{}

func adminFromContext(ctx context.Context) string {
	username, _ := ctx.Value(adminContextKey{}).(string)
	return username
}

// requireAdmin resolves the bearer token to an admin before calling next.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeAdminError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
			return
		}
		username, err := s.admin.Handler.AuthenticateHandler(r.Context(), token)
		if err != nil {
			if !errors.Is(err, adminerrors.ErrUnauthorized) {
				s.logger.Error("admin authentication failed",
					"event", "http_admin_auth_failed",
					"module", moduleName,
					"layer", "transport",
					"path", r.URL.Path,
					"error", err.Error(),
				)
			}
			writeAdminDomainError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), adminContextKey{}, username)))
	}
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminhttp.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAdminError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.admin.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminWhoAmI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, adminhttp.WhoAmIResponse{Username: adminFromContext(r.Context())})
}

func (s *Server) handleAdminChangePassword(w http.ResponseWriter, r *http.Request) {
	var req adminhttp.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAdminError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.admin.Handler.ChangePasswordHandler(r.Context(), adminFromContext(r.Context()), req)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAdminDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminerrors.ErrInvalidCredentials):
		writeAdminError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, adminerrors.ErrUnauthorized):
		writeAdminError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, adminerrors.ErrPasswordRequired),
		errors.Is(err, adminerrors.ErrPasswordMismatch),
		errors.Is(err, adminerrors.ErrPasswordTooShort),
		errors.Is(err, adminerrors.ErrCurrentPasswordWrong),
		errors.Is(err, adminerrors.ErrInvalidUsername):
		writeAdminError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, adminerrors.ErrAdminNotFound):
		writeAdminError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeAdminError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAdminError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, adminhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
