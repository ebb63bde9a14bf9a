package valueobjects

import (
	"strings"
	"unicode/utf8"

	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
)

const maxUsernameLength = 64

// Username enforces basic identity constraints at the domain boundary.
type Username string

func NewUsername(v string) (Username, error) {
	v = strings.TrimSpace(v)
	if v == "" || utf8.RuneCountInString(v) > maxUsernameLength {
		return "", domainerrors.ErrInvalidUsername
	}
	return Username(v), nil
}
