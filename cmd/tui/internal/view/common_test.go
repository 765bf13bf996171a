package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/billed/internal/session"
)

func TestActiveIcon(t *testing.T) {
	assert.Equal(t, TestIDIconWindow, ActiveIcon(RouteBills))
	assert.Equal(t, TestIDIconMail, ActiveIcon(RouteNewBill))
	assert.Empty(t, ActiveIcon(RouteDashboard))

	icons := SidebarIcons(RouteNewBill)
	assert.False(t, icons[0].Active)
	assert.True(t, icons[1].Active)
}

func TestResolve(t *testing.T) {
	employee := session.User{Type: "Employee", Email: "e@test.tld"}
	admin := session.User{Type: "Admin", Email: "a@test.tld"}

	tests := []struct {
		name     string
		route    Route
		user     session.User
		loggedIn bool
		want     Route
	}{
		{name: "anonymous", route: RouteBills, want: RouteLogin},
		{name: "employee bills", route: RouteBills, user: employee, loggedIn: true, want: RouteBills},
		{name: "employee new bill", route: RouteNewBill, user: employee, loggedIn: true, want: RouteNewBill},
		{name: "employee dashboard", route: RouteDashboard, user: employee, loggedIn: true, want: RouteBills},
		{name: "admin bills", route: RouteBills, user: admin, loggedIn: true, want: RouteDashboard},
		{name: "admin new bill", route: RouteNewBill, user: admin, loggedIn: true, want: RouteDashboard},
		{name: "logged in login", route: RouteLogin, user: employee, loggedIn: true, want: RouteBills},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.route, tt.user, tt.loggedIn))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "348.00 €", FormatAmount(decimal.NewFromInt(348)))
	assert.Equal(t, "2004-04-04", FormatDate(day(2004, 4, 4)))
	assert.Empty(t, FormatDate(time.Time{}))
}

func TestReceiptModal(t *testing.T) {
	m := NewReceiptModal()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())

	m.Show("Taxi", "http://localhost/receipts/a.jpg")
	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "http://localhost/receipts/a.jpg")

	m.Hide()
	assert.False(t, m.Visible())
}
