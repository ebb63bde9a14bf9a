package security

import (
	"errors"
	"fmt"
	"time"

	"lanvote/contexts/identity-access/admin-auth/domain/entities"
	"lanvote/contexts/identity-access/admin-auth/ports"

	"github.com/golang-jwt/jwt/v4"
)

const tokenIssuer = "lanvote-admin"

var errInvalidToken = errors.New("invalid admin token")

// JWTIssuer signs HS256 admin tokens.
type JWTIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func (i JWTIssuer) Issue(username string, now time.Time) (entities.Session, error) {
	if len(i.Secret) == 0 {
		return entities.Session{}, errors.New("admin jwt secret is empty")
	}
	expiresAt := now.Add(i.ttl()).UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return entities.Session{}, err
	}
	return entities.Session{
		Token:     signed,
		Username:  username,
		ExpiresAt: expiresAt,
	}, nil
}

func (i JWTIssuer) Verify(token string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	// Claims are checked against the injected clock rather than time.Now.
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyNotBefore(now, true) || !claims.VerifyIssuer(tokenIssuer, true) {
		return "", errInvalidToken
	}
	if claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

func (i JWTIssuer) ttl() time.Duration {
	if i.TTL <= 0 {
		return 12 * time.Hour
	}
	return i.TTL
}

var _ ports.TokenIssuer = JWTIssuer{}
