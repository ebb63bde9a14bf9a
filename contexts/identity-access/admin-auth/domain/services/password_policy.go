package services

import (
	"unicode/utf8"

	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
)

const MinPasswordLength = 6

// ValidatePasswordChange checks the new password fields before the current
// password is verified.
func ValidatePasswordChange(current string, next string, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return domainerrors.ErrPasswordRequired
	}
	if next != confirm {
		return domainerrors.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return domainerrors.ErrPasswordTooShort
	}
	return nil
}
