package ports

import (
	"context"
	"time"

	"lanvote/contexts/identity-access/admin-auth/domain/entities"
)

type AdminRepository interface {
	GetAdmin(ctx context.Context, username string) (entities.AdminUser, error)
	// CreateAdminIfAbsent reports false when the username already exists.
	CreateAdminIfAbsent(ctx context.Context, admin entities.AdminUser) (bool, error)
	UpdatePasswordHash(ctx context.Context, username string, passwordHash string, updatedAt time.Time) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type TokenIssuer interface {
	Issue(username string, now time.Time) (entities.Session, error)
	// Verify returns the username the token was issued to.
	Verify(token string, now time.Time) (string, error)
}

type Clock interface {
	Now() time.Time
}
