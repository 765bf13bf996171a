package main

import (
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billed/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/billed/internal/client"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/export"
	"github.com/MrJamesThe3rd/billed/internal/logging"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type model struct {
	cfg      *config.Config
	api      *client.Client
	sessions *session.Store
	modal    *view.ReceiptModal
	exporter *export.Service

	route   view.Route
	current tea.Model
	size    tea.WindowSizeMsg
}

func initialModel(cfg *config.Config) model {
	sessionPath, err := cfg.SessionFile()
	if err != nil {
		slog.Error("failed to locate session file", "error", err)
		os.Exit(1)
	}

	api := client.New(cfg.Client.APIURL, cfg.Client.Timeout)

	m := model{
		cfg:      cfg,
		api:      api,
		sessions: session.NewStore(sessionPath),
		modal:    view.NewReceiptModal(),
		exporter: export.NewService(api.Bills(), api.Token),
	}

	m.mount(view.RouteBills, "")

	return m
}

// mount replaces the current screen. The route is resolved against the stored session
// so anonymous users land on login and admins stay off employee screens.
func (m *model) mount(route view.Route, notice string) tea.Cmd {
	user, err := m.sessions.Load()
	loggedIn := err == nil

	if err != nil && !errors.Is(err, session.ErrNoSession) {
		slog.Warn("ignoring unreadable session", "error", err)
	}

	m.api.SetToken(user.Token)
	m.route = view.Resolve(route, user, loggedIn)
	m.modal.Hide()

	switch m.route {
	case view.RouteLogin:
		m.current = view.NewLoginModel(m.api, m.sessions)
	case view.RouteBills:
		m.current = view.NewBillsModel(m.api, m.sessions, m.modal, view.BillsOptions{
			Exporter:  m.exporter,
			ExportDir: m.cfg.Client.ExportDir,
			Notice:    notice,
		})
	case view.RouteNewBill:
		m.current = view.NewNewBillModel(m.api, m.sessions)
	case view.RouteDashboard:
		m.current = view.NewDashboardModel(m.api, m.modal)
	}

	slog.Debug("mounted screen", "route", m.route, "requested", route)

	cmds := []tea.Cmd{m.current.Init()}
	if m.size.Width > 0 {
		size := m.size
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return tea.Batch(cmds...)
}

func (m model) Init() tea.Cmd {
	return m.current.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			if m.route == view.RouteLogin {
				break
			}

			if err := m.sessions.Clear(); err != nil {
				slog.Error("failed to clear session", "error", err)
			}

			return m, m.mount(view.RouteLogin, "")
		}

	case tea.WindowSizeMsg:
		m.size = msg

	case view.NavigateMsg:
		return m, m.mount(msg.Route, msg.Notice)
	}

	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)

	return m, cmd
}

func (m model) View() string {
	return view.Layout(m.route, m.current.View())
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := tea.LogToFile(cfg.Client.LogFile, "billed")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	logging.SetupWriter(f, cfg.App.LogLevel)

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
