package security

import (
	"testing"
	"time"
)

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := JWTIssuer{Secret: []byte("k"), TTL: time.Minute}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	session, err := issuer.Issue("admin", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !session.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected expiry %s", session.ExpiresAt)
	}
	username, err := issuer.Verify(session.Token, now.Add(30*time.Second))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if username != "admin" {
		t.Fatalf("expected admin, got %q", username)
	}
}

func TestJWTIssuerRejectsExpiredToken(t *testing.T) {
	issuer := JWTIssuer{Secret: []byte("k"), TTL: time.Minute}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	session, err := issuer.Issue("admin", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(session.Token, now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTIssuerRequiresSecret(t *testing.T) {
	if _, err := (JWTIssuer{}).Issue("admin", time.Now()); err == nil {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestBcryptHasherCompare(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}
	hash, err := hasher.Hash("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "admin123"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := hasher.Compare(hash, "admin124"); err == nil {
		t.Fatalf("expected mismatch")
	}
}
