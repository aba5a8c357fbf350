package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"techmart/internal/domain"
)

type staticTokens struct {
	valid string
	id    domain.Identity
}

func (s staticTokens) Issue(id domain.Identity) (string, error) { return s.valid, nil }
func (s staticTokens) Verify(token string) (domain.Identity, error) {
	if token != s.valid {
		return domain.Identity{}, errors.New("bad token")
	}
	return s.id, nil
}

func echoIdentity(t *testing.T, wantAuth bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if ok != wantAuth {
			t.Errorf("identity present=%v, want %v", ok, wantAuth)
		}
		if ok && id.ID == 0 {
			t.Errorf("zero identity attached")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	tokens := staticTokens{valid: "good", id: domain.Identity{ID: 7, Role: "user"}}
	h := Auth(tokens)(echoIdentity(t, true))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestAuth_BadToken(t *testing.T) {
	tokens := staticTokens{valid: "good", id: domain.Identity{ID: 7, Role: "user"}}
	h := Auth(tokens)(echoIdentity(t, true))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := staticTokens{valid: "good", id: domain.Identity{ID: 7, Role: "admin"}}
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || id.ID != 7 || !id.IsAdmin() {
			t.Errorf("identity: %+v ok=%v", id, ok)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "bearer good") // scheme is case-insensitive
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := staticTokens{valid: "good", id: domain.Identity{ID: 7, Role: "user"}}

	// no header: request passes through unauthenticated
	h := OptionalAuth(tokens)(echoIdentity(t, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status without token: %d", rec.Code)
	}

	// bad token: still passes through, just anonymous
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with bad token: %d", rec.Code)
	}

	// good token: identity attached
	h = OptionalAuth(tokens)(echoIdentity(t, true))
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with good token: %d", rec.Code)
	}
}
