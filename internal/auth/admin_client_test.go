package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdminAPI keeps users in memory and checks the service key.
type fakeAdminAPI struct {
	mu    sync.Mutex
	users []AdminUser
}

func (f *fakeAdminAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != "service" || r.Header.Get("Authorization") != "Bearer service" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/auth/v1/admin/users":
		_ = json.NewEncoder(w).Encode(listUsersResponse{Users: f.users})
	case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
		var req createUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		user := AdminUser{ID: "id-" + req.Email, Email: req.Email, Role: "authenticated"}
		f.users = append(f.users, user)
		_ = json.NewEncoder(w).Encode(user)
	case r.Method == http.MethodDelete:
		id := r.URL.Path[len("/auth/v1/admin/users/"):]
		for i, u := range f.users {
			if u.ID == id {
				f.users = append(f.users[:i], f.users[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestAdminClient(t *testing.T) {
	api := &fakeAdminAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c := NewAdminClient(srv.URL, "service")
	ctx := context.Background()

	user, err := c.EnsureUser(ctx, "demo@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "id-demo@example.com", user.ID)

	again, err := c.EnsureUser(ctx, "demo@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, api.users, 1)

	require.NoError(t, c.DeleteUserByEmail(ctx, "demo@example.com"))
	require.NoError(t, c.DeleteUserByEmail(ctx, "demo@example.com"))

	_, err = c.FindUserByEmail(ctx, "demo@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminClient_BadKey(t *testing.T) {
	srv := httptest.NewServer(&fakeAdminAPI{})
	defer srv.Close()

	_, err := NewAdminClient(srv.URL, "wrong").FindUserByEmail(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
