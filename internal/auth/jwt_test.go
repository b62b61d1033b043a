package auth

import (
	"errors"
	"testing"
	"time"

	"safety-training-service/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	m, err := NewTokenManager("s3cret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, expires, err := m.Issue("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected expiry in the future")
	}
	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %q", userID)
	}
}

func TestVerifyRejects(t *testing.T) {
	m, _ := NewTokenManager("s3cret", time.Minute)
	other, _ := NewTokenManager("other", time.Minute)
	token, _, _ := m.Issue("u1", "")

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected wrong secret rejected, got %v", err)
	}
	if _, err := m.Verify("garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected garbage rejected, got %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := m.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("password stored in clear")
	}
	if !CheckPassword(hash, "secret1") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "secret2") {
		t.Fatalf("expected mismatch")
	}
}
