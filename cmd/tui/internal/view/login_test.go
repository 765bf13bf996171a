package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/client"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

func TestLoginModel_Success(t *testing.T) {
	tests := []struct {
		userType string
		want     Route
	}{
		{userType: "Employee", want: RouteBills},
		{userType: "Admin", want: RouteDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.userType, func(t *testing.T) {
			store := newFakeStore()
			store.user = session.User{Type: tt.userType, Token: "tok"}
			sessions := &fakeSessions{}

			m := NewLoginModel(store, sessions)
			m.credentials.Email = " someone@test.tld "
			m.credentials.Password = "secret"

			msg := m.loginCmd()()

			require.Len(t, sessions.saved, 1)
			assert.Equal(t, "someone@test.tld", sessions.saved[0].Email)
			assert.Equal(t, tt.userType, sessions.saved[0].Type)

			_, cmd := m.Update(msg)
			require.NotNil(t, cmd)
			assert.Equal(t, NavigateMsg{Route: tt.want}, cmd())
		})
	}
}

func TestLoginModel_Failure(t *testing.T) {
	store := newFakeStore()
	store.loginErr = &client.APIError{StatusCode: 401}
	sessions := &fakeSessions{}

	m := NewLoginModel(store, sessions)
	m.credentials.Email = "someone@test.tld"
	m.credentials.Password = "wrong"

	model, _ := m.Update(m.loginCmd()())
	m = model.(LoginModel)

	assert.Empty(t, sessions.saved)
	assert.Empty(t, m.credentials.Password)
	assert.Equal(t, "someone@test.tld", m.credentials.Email)
	assert.Contains(t, m.View(), "Erreur 401")
}
