package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okellen/contactbook-be/internal/auth"
	"github.com/okellen/contactbook-be/internal/models"
)

type fakeResolver struct {
	users map[string]models.User
}

func (r *fakeResolver) GetUserByID(_ context.Context, id string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, http.ErrNoCookie
	}
	return user, nil
}

func TestGenerateValidate(t *testing.T) {
	m := auth.NewManager("secret", time.Hour)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestValidateExpired(t *testing.T) {
	m := auth.NewManager("secret", -time.Minute)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	_, err = m.Validate(token)
	require.Error(t, err)
}

func TestValidateWrongKey(t *testing.T) {
	token, err := auth.NewManager("secret", time.Hour).Generate("user-1")
	require.NoError(t, err)

	_, err = auth.NewManager("other", time.Hour).Validate(token)
	require.Error(t, err)
}

func gateRequest(t *testing.T, m *auth.Manager, resolver auth.UserResolver, header string) *httptest.ResponseRecorder {
	t.Helper()

	var gotUser models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		require.True(t, ok)
		gotUser = user
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	m.Middleware(resolver)(next).ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		require.NotEmpty(t, gotUser.ID)
	}
	return rec
}

func TestMiddleware(t *testing.T) {
	m := auth.NewManager("secret", time.Hour)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	resolver := &fakeResolver{users: map[string]models.User{
		"user-1": {ID: "user-1", Email: "alice@mail.com", Token: token},
	}}

	rec := gateRequest(t, m, resolver, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareMissingOrMalformedHeader(t *testing.T) {
	m := auth.NewManager("secret", time.Hour)
	resolver := &fakeResolver{users: map[string]models.User{}}

	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, resolver, "").Code)
	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, resolver, "Token abc").Code)
	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, resolver, "Bearer ").Code)
	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, resolver, "Bearer not-a-jwt").Code)
}

func TestMiddlewareUnknownUser(t *testing.T) {
	m := auth.NewManager("secret", time.Hour)

	token, err := m.Generate("ghost")
	require.NoError(t, err)

	resolver := &fakeResolver{users: map[string]models.User{}}
	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, resolver, "Bearer "+token).Code)
}

// A token with a valid signature stops working once the stored session token
// is cleared or replaced.
func TestMiddlewareStaleSessionToken(t *testing.T) {
	m := auth.NewManager("secret", time.Hour)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	loggedOut := &fakeResolver{users: map[string]models.User{
		"user-1": {ID: "user-1", Token: ""},
	}}
	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, loggedOut, "Bearer "+token).Code)

	replaced := &fakeResolver{users: map[string]models.User{
		"user-1": {ID: "user-1", Token: "some-other-session"},
	}}
	require.Equal(t, http.StatusUnauthorized, gateRequest(t, m, replaced, "Bearer "+token).Code)
}
