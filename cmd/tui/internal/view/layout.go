package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Identifiers of the bindable controls. Key bindings are listed next to them in the help line.
const (
	TestIDIconWindow  = "icon-window"
	TestIDIconMail    = "icon-mail"
	TestIDActiveIcon  = "active-icon"
	TestIDBtnNewBill  = "btn-new-bill"
	TestIDIconEye     = "icon-eye"
	TestIDFormNewBill = "form-new-bill"
	TestIDFile        = "file"
)

// Icon is one entry of the vertical sidebar.
type Icon struct {
	ID     string
	Label  string
	Route  Route
	Active bool
}

var (
	sidebarStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240"))
	iconStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeIconStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle      = lipgloss.NewStyle().Bold(true).PaddingBottom(1)
	helpStyle       = lipgloss.NewStyle().Faint(true)
)

// SidebarIcons returns the sidebar entries with the one matching route marked active.
func SidebarIcons(route Route) []Icon {
	icons := []Icon{
		{ID: TestIDIconWindow, Label: "▤ Notes", Route: RouteBills},
		{ID: TestIDIconMail, Label: "✉ Nouvelle", Route: RouteNewBill},
	}

	for i := range icons {
		icons[i].Active = icons[i].Route == route
	}

	return icons
}

// ActiveIcon returns the id of the highlighted sidebar icon, "" when none is.
func ActiveIcon(route Route) string {
	for _, icon := range SidebarIcons(route) {
		if icon.Active {
			return icon.ID
		}
	}

	return ""
}

// Layout renders content next to the sidebar. Screens without a sidebar entry get none.
func Layout(route Route, content string) string {
	if route == RouteLogin || route == RouteDashboard {
		return content
	}

	lines := make([]string, 0, 2)

	for _, icon := range SidebarIcons(route) {
		if icon.Active {
			lines = append(lines, activeIconStyle.Render("> "+icon.Label))
			continue
		}

		lines = append(lines, iconStyle.Render("  "+icon.Label))
	}

	sidebar := sidebarStyle.Render(strings.Join(lines, "\n\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}
