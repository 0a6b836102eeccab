package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(Principal{ID: "u1", Email: "a@parkspot.test", Role: db.RoleEmployee})
	require.NoError(t, err)

	p, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "u1", Email: "a@parkspot.test", Role: db.RoleEmployee}, p)
}

func TestTokens_RejectsExpiredAndForeignTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(Principal{ID: "u1", Role: db.RoleClient})
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other := NewTokens("other-secret", time.Hour)
	_, err = other.Parse(raw)
	assert.Error(t, err)
}

func TestTokens_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(raw)
	assert.Error(t, err)
}

func protected(tokens *Tokens, min db.Role) (http.Handler, *bool) {
	reached := false
	h := Authenticate(tokens)(RequireRole(min)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		p, _ := PrincipalFrom(r.Context())
		w.Write([]byte(p.ID))
	})))
	return h, &reached
}

func TestMiddleware_MissingToken(t *testing.T) {
	h, reached := protected(NewTokens("secret", time.Hour), db.RoleClient)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reservations/search", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	assert.False(t, *reached)
}

func TestMiddleware_RoleGating(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	cases := []struct {
		role db.Role
		min  db.Role
		code int
	}{
		{db.RoleClient, db.RoleEmployee, http.StatusForbidden},
		{db.RoleEmployee, db.RoleEmployee, http.StatusOK},
		{db.RoleAdmin, db.RoleEmployee, http.StatusOK},
		{db.RoleEmployee, db.RoleAdmin, http.StatusForbidden},
		{db.Role("guest"), db.RoleClient, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"->"+string(tc.min), func(t *testing.T) {
			h, reached := protected(tokens, tc.min)
			raw, err := tokens.Issue(Principal{ID: "u1", Role: tc.role})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+raw)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.code == http.StatusOK, *reached)
		})
	}
}

func TestMiddleware_GarbageToken(t *testing.T) {
	h, reached := protected(NewTokens("secret", time.Hour), db.RoleClient)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestMiddleware_ForbiddenUsesAuthorizationError(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	h, reached := protected(tokens, db.RoleAdmin)
	raw, err := tokens.Issue(Principal{ID: "u1", Role: db.RoleEmployee})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden resource"}`, rec.Body.String())
	assert.False(t, *reached)
	assert.True(t, apperrors.IsAuthorization(errForbidden))
	assert.True(t, apperrors.IsAuthentication(errUnauthorized))
}
