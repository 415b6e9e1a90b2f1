package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	raw, issued, err := issuer.Generate("user-42", "aline@example.rw", "user")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	claims, err := issuer.Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.UserID != "user-42" || claims.Email != "aline@example.rw" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != issued.ID {
		t.Fatalf("token id = %q, want %q", claims.ID, issued.ID)
	}
}

func TestTokenIssuerRejectsOtherSecret(t *testing.T) {
	raw, _, err := NewTokenIssuer("one", time.Hour).Generate("u1", "a@b.rw", "user")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := NewTokenIssuer("two", time.Hour).Validate(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", -time.Minute)
	raw, _, err := issuer.Generate("u1", "a@b.rw", "user")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := issuer.Validate(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Validate() error = %v, want ErrInvalidToken", err)
	}
}
