package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

type contextKey struct{}

var (
	errUnauthorized = &apperrors.AuthenticationError{Message: "Unauthorized"}
	errForbidden    = &apperrors.AuthorizationError{Message: "Forbidden resource"}
)

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal Authenticate stored, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, errUnauthorized)
				return
			}
			principal, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Printf("Rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				writeAuthError(w, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole lets through principals whose role ranks at least min.
// It must run after Authenticate.
func RequireRole(min db.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				writeAuthError(w, errUnauthorized)
				return
			}
			if principal.Role.Rank() < min.Rank() {
				writeAuthError(w, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	herr := apperrors.ToHTTP(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(herr.Code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": herr.Message})
}
