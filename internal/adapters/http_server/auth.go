package httpserver

import (
	"context"
	"net/http"
	"strings"

	"techmart/internal/domain"
)

type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom returns the authenticated caller, if any.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Auth rejects requests without a valid bearer token.
func Auth(tokens domain.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				writeMessage(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}
			id, err := tokens.Verify(tok)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is supplied and lets
// the request through unauthenticated otherwise.
func OptionalAuth(tokens domain.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerToken(r); tok != "" {
				if id, err := tokens.Verify(tok); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
