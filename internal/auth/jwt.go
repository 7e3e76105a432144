// Package auth extracts an optional user identity from a JWT bearer
// token. Anonymous play is allowed: requests without a token pass
// through with no user id.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey struct{}

var userIDKey contextKey

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Middleware resolves the Authorization header. A missing header means
// anonymous; a present but invalid token is rejected with 401.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, "malformed authorization header", http.StatusUnauthorized)
			return
		}

		userID, err := v.Verify(raw)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// Verify parses and validates a token, returning its subject.
func (v *Verifier) Verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	return token.Claims.GetSubject()
}

// WithUserID stores a user id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id, or "" for anonymous.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
