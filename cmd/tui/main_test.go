package main

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/billed/internal/client"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/export"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

// newTestModel builds the router without touching the network. Screens are mounted
// but their Init commands are never run.
func newTestModel(t *testing.T, user *session.User) model {
	t.Helper()

	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Client.ExportDir = filepath.Join(dir, "exports")

	api := client.New("http://127.0.0.1:1", time.Second)
	sessions := session.NewStore(filepath.Join(dir, "session.json"))

	if user != nil {
		require.NoError(t, sessions.Save(*user))
	}

	return model{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		modal:    view.NewReceiptModal(),
		exporter: export.NewService(api.Bills(), api.Token),
	}
}

func employeeUser() *session.User {
	return &session.User{Type: "Employee", Email: "employee@test.tld", Token: "tok"}
}

func TestModel_SubmitReturnsToBillsWithNotice(t *testing.T) {
	m := newTestModel(t, employeeUser())
	m.mount(view.RouteNewBill, "")
	require.Equal(t, view.RouteNewBill, m.route)

	next, cmd := m.Update(view.NavigateMsg{Route: view.RouteBills, Notice: "Erreur 500"})
	got := next.(model)

	assert.NotNil(t, cmd)
	assert.Equal(t, view.RouteBills, got.route)
	assert.Equal(t, "tok", got.api.Token())

	bills, ok := got.current.(view.BillsModel)
	require.True(t, ok)
	assert.Equal(t, "Erreur 500", bills.StatusLine())
	assert.Contains(t, got.View(), "Erreur 500")
}

func TestModel_NavigateResolvesAgainstSession(t *testing.T) {
	t.Run("anonymous lands on login", func(t *testing.T) {
		m := newTestModel(t, nil)

		next, _ := m.Update(view.NavigateMsg{Route: view.RouteBills})
		got := next.(model)

		assert.Equal(t, view.RouteLogin, got.route)
		assert.IsType(t, view.LoginModel{}, got.current)
		assert.Empty(t, got.api.Token())
	})

	t.Run("admin stays on the dashboard", func(t *testing.T) {
		m := newTestModel(t, &session.User{Type: "Admin", Email: "admin@test.tld", Token: "adm"})

		next, _ := m.Update(view.NavigateMsg{Route: view.RouteNewBill})
		got := next.(model)

		assert.Equal(t, view.RouteDashboard, got.route)
		assert.IsType(t, view.DashboardModel{}, got.current)
	})
}

func TestModel_LogoutClearsSession(t *testing.T) {
	m := newTestModel(t, employeeUser())
	m.mount(view.RouteBills, "")
	require.Equal(t, view.RouteBills, m.route)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	got := next.(model)

	assert.NotNil(t, cmd)
	assert.Equal(t, view.RouteLogin, got.route)
	assert.IsType(t, view.LoginModel{}, got.current)
	assert.Empty(t, got.api.Token())

	_, err := got.sessions.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestModel_LogoutOnLoginIsIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m.mount(view.RouteLogin, "")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	got := next.(model)

	assert.Equal(t, view.RouteLogin, got.route)
	assert.IsType(t, view.LoginModel{}, got.current)
}
