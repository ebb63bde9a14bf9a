package errors

import "errors"

var (
	ErrInvalidUsername      = errors.New("invalid username")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAdminNotFound        = errors.New("admin user not found")
	ErrPasswordRequired     = errors.New("current, new and confirm password are required")
	ErrPasswordMismatch     = errors.New("new password and confirmation do not match")
	ErrPasswordTooShort     = errors.New("new password is too short")
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
)
