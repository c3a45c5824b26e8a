package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgates/waypoint/internal/domain/user"
	"github.com/jgates/waypoint/internal/repository"
)

type testUserRepo struct {
	hashToUser map[string]*user.User
}

func (r *testUserRepo) Get(_ context.Context, id string) (*user.User, error) {
	for _, u := range r.hashToUser {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *testUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (r *testUserRepo) ResolveAPIKey(_ context.Context, keyHash string) (string, error) {
	u, ok := r.hashToUser[keyHash]
	if !ok {
		return "", repository.ErrNotFound
	}
	return u.ID, nil
}

func TestAuthMiddleware(t *testing.T) {
	alice := &user.User{ID: "user-1", Timezone: "Europe/Berlin", CreatedAt: time.Now()}
	repo := &testUserRepo{hashToUser: map[string]*user.User{
		HashAPIKey("token"): alice,
	}}

	handler := AuthMiddleware(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "user-1", u.ID)
		require.Equal(t, "Europe/Berlin", u.Location().String())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	repo := &testUserRepo{}

	handler := AuthMiddleware(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_UnknownToken(t *testing.T) {
	repo := &testUserRepo{hashToUser: map[string]*user.User{}}

	handler := AuthMiddleware(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHashAPIKey_Stable(t *testing.T) {
	require.Equal(t, HashAPIKey("abc"), HashAPIKey("abc"))
	require.NotEqual(t, HashAPIKey("abc"), HashAPIKey("abd"))
	require.Len(t, HashAPIKey("abc"), 64)
}
