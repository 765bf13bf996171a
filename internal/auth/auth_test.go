package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/auth"
)

type memUsers struct {
	users map[string]*auth.User
}

func (m *memUsers) UpsertUser(_ context.Context, user *auth.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return u, nil
}

func newService(t *testing.T) *auth.Service {
	t.Helper()

	svc := auth.NewService(&memUsers{users: map[string]*auth.User{}}, auth.NewJWTManager("secret", time.Hour))
	require.NoError(t, svc.Ensure(context.Background(), "employee@test.tld", "employee", auth.TypeEmployee))
	require.NoError(t, svc.Ensure(context.Background(), "admin@test.tld", "admin", auth.TypeAdmin))

	return svc
}

func TestService_Login(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, token, err := svc.Login(ctx, "employee@test.tld", "employee")
	require.NoError(t, err)
	assert.Equal(t, auth.TypeEmployee, user.Type)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "employee@test.tld", claims.Email)
	assert.Equal(t, auth.TypeEmployee, claims.Type)

	_, _, err = svc.Login(ctx, "employee@test.tld", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@test.tld", "employee")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_EnsureRejectsUnknownType(t *testing.T) {
	svc := newService(t)

	err := svc.Ensure(context.Background(), "x@test.tld", "pw", auth.UserType("Guest"))
	assert.ErrorIs(t, err, auth.ErrInvalidUserType)
}

func TestJWTManager_Expired(t *testing.T) {
	m := auth.NewJWTManager("secret", -time.Minute)

	token, err := m.Generate(&auth.User{Email: "e@e", Type: auth.TypeEmployee})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := auth.NewJWTManager("one", time.Hour).Generate(&auth.User{Email: "e@e", Type: auth.TypeAdmin})
	require.NoError(t, err)

	_, err = auth.NewJWTManager("two", time.Hour).Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	svc := newService(t)

	_, employeeToken, err := svc.Login(context.Background(), "employee@test.tld", "employee")
	require.NoError(t, err)

	_, adminToken, err := svc.Login(context.Background(), "admin@test.tld", "admin")
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, found := auth.FromContext(r.Context())
		assert.True(t, found)
		w.Write([]byte(claims.Email))
	})

	tests := []struct {
		name    string
		handler http.Handler
		header  string
		want    int
	}{
		{name: "missing token", handler: auth.RequireAuth(svc)(ok), want: http.StatusUnauthorized},
		{name: "malformed header", handler: auth.RequireAuth(svc)(ok), header: "Token abc", want: http.StatusUnauthorized},
		{name: "bad token", handler: auth.RequireAuth(svc)(ok), header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "employee", handler: auth.RequireAuth(svc)(ok), header: "Bearer " + employeeToken, want: http.StatusOK},
		{name: "employee on admin route", handler: auth.RequireAuth(svc)(auth.RequireAdmin(ok)), header: "Bearer " + employeeToken, want: http.StatusForbidden},
		{name: "admin on admin route", handler: auth.RequireAuth(svc)(auth.RequireAdmin(ok)), header: "Bearer " + adminToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
