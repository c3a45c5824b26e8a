package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jgates/waypoint/internal/domain/user"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type userKey struct{}

// UserFromContext returns the authenticated user from context, if present.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey{}).(*user.User)
	return u, ok
}

// HashAPIKey returns the hex sha256 digest under which keys are stored.
func HashAPIKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DevAuthMiddleware pins every request to a single account without checking
// credentials. Local development only; the account is created on first use.
func DevAuthMiddleware(users user.Repository, userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := users.Get(r.Context(), userID)
			if err != nil {
				u = &user.User{ID: userID, Timezone: "UTC", CreatedAt: time.Now()}
				if err := users.Create(r.Context(), u); err != nil {
					http.Error(w, "dev user unavailable", http.StatusInternalServerError)
					return
				}
			}
			ctx := context.WithValue(r.Context(), userKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthMiddleware enforces bearer token authentication. Tokens are matched
// against stored API key hashes and resolved to a full user record so that
// handlers can compute dates in the account's timezone.
func AuthMiddleware(users user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			userID, err := users.ResolveAPIKey(r.Context(), HashAPIKey(token))
			if err != nil || userID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			u, err := users.Get(r.Context(), userID)
			if err != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
