package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"lanvote/contexts/identity-access/admin-auth/domain/entities"
	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
	"lanvote/contexts/identity-access/admin-auth/ports"
)

// Store is an in-memory admin repository for tests and local development.
type Store struct {
	mu     sync.RWMutex
	admins map[string]entities.AdminUser
}

func NewStore() *Store {
	return &Store{admins: make(map[string]entities.AdminUser)}
}

func (s *Store) GetAdmin(_ context.Context, username string) (entities.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[strings.TrimSpace(username)]
	if !ok {
		return entities.AdminUser{}, domainerrors.ErrAdminNotFound
	}
	return admin, nil
}

func (s *Store) CreateAdminIfAbsent(_ context.Context, admin entities.AdminUser) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.admins[admin.Username]; exists {
		return false, nil
	}
	s.admins[admin.Username] = admin
	return true, nil
}

func (s *Store) UpdatePasswordHash(_ context.Context, username string, passwordHash string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[username]
	if !ok {
		return domainerrors.ErrAdminNotFound
	}
	admin.PasswordHash = passwordHash
	admin.UpdatedAt = updatedAt.UTC()
	s.admins[username] = admin
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.AdminRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
