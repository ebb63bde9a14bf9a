package security

import (
	"lanvote/contexts/identity-access/admin-auth/ports"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes admin passwords. Cost 0 means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var _ ports.PasswordHasher = BcryptHasher{}
