package auth

import (
	"testing"
	"time"

	"techmart/internal/domain"
)

func TestJWT_RoundTrip(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)

	tok, err := j.Issue(domain.Identity{ID: 42, Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := j.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != 42 || id.Role != "admin" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	tok, err := NewJWT("secret-a", time.Hour).Issue(domain.Identity{ID: 1, Role: "user"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewJWT("secret-b", time.Hour).Verify(tok); err == nil {
		t.Fatalf("token verified with the wrong secret")
	}
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("test-secret", -time.Minute)
	tok, err := j.Issue(domain.Identity{ID: 1, Role: "user"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Verify(tok); err == nil {
		t.Fatalf("expired token verified")
	}
}

func TestJWT_Garbage(t *testing.T) {
	if _, err := NewJWT("test-secret", time.Hour).Verify("not-a-token"); err == nil {
		t.Fatalf("garbage verified")
	}
}
