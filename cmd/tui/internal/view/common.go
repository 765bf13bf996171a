package view

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/billed/internal/client"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type CommonModel struct {
	Width  int
	Height int
}

// Route names a screen of the application.
type Route string

const (
	RouteLogin     Route = "login"
	RouteBills     Route = "bills"
	RouteNewBill   Route = "new-bill"
	RouteDashboard Route = "dashboard"
)

// NavigateMsg asks the application to mount another screen.
// Notice, when set, is shown by the destination screen.
type NavigateMsg struct {
	Route  Route
	Notice string
}

// Navigate returns the command switching to route.
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: route}
	}
}

// Store is the data source views talk to.
type Store interface {
	Bills() client.BillsAPI
	Login(ctx context.Context, email, password string) (session.User, error)
}

// Sessions gives views access to the connected user.
type Sessions interface {
	Load() (session.User, error)
	Save(u session.User) error
}

// Resolve returns the route actually mounted for user when route is requested.
// Anonymous users always land on login; admins cannot reach employee screens.
func Resolve(route Route, user session.User, loggedIn bool) Route {
	if !loggedIn {
		return RouteLogin
	}

	switch route {
	case RouteBills, RouteNewBill:
		if user.IsAdmin() {
			return RouteDashboard
		}
	case RouteDashboard:
		if !user.IsAdmin() {
			return RouteBills
		}
	case RouteLogin:
		return Home(user)
	}

	return route
}

// Home is the first screen shown to user after login.
func Home(user session.User) Route {
	if user.IsAdmin() {
		return RouteDashboard
	}

	return RouteBills
}
