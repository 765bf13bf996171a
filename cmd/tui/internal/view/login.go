package view

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/session"
)

type loginCredentials struct {
	Email    string
	Password string
}

// LoginModel authenticates the user and remembers the session.
type LoginModel struct {
	CommonModel
	store    Store
	sessions Sessions

	form        *huh.Form
	credentials *loginCredentials
	loading     bool
	err         error
}

func NewLoginModel(store Store, sessions Sessions) LoginModel {
	m := LoginModel{
		store:       store,
		sessions:    sessions,
		credentials: &loginCredentials{},
	}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Billed" }

func (m LoginModel) ShortHelp() string { return "Enter: se connecter | ctrl+c: quitter" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.loading = false
		if res.err != nil {
			m.err = res.err
			m.credentials.Password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, Navigate(Home(res.user))
	}

	if m.loading {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.loading = true
	m.err = nil

	return m, m.loginCmd()
}

func (m LoginModel) View() string {
	body := m.form.View()
	if m.loading {
		body = "Connexion..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		body,
		helpStyle.Render(m.ShortHelp()),
	)

	if m.err != nil {
		content = errorStyle.Render(m.err.Error()) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func (m LoginModel) buildForm() *huh.Form {
	c := m.credentials

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("employee-email-input").
				Title("Adresse e-mail").
				Placeholder("johndoe@email.com").
				Value(&c.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("adresse e-mail invalide")
					}
					return nil
				}),

			huh.NewInput().
				Key("employee-password-input").
				Title("Mot de passe").
				EchoMode(huh.EchoModePassword).
				Value(&c.Password),
		),
	).WithWidth(45).WithShowHelp(false)
}

// Messages

type loginResultMsg struct {
	user session.User
	err  error
}

func (m LoginModel) loginCmd() tea.Cmd {
	email := strings.TrimSpace(m.credentials.Email)
	password := m.credentials.Password

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		user, err := m.store.Login(ctx, email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}

		if err := m.sessions.Save(user); err != nil {
			slog.Error("saving session", "error", err)
			return loginResultMsg{err: fmt.Errorf("saving session: %w", err)}
		}

		return loginResultMsg{user: user}
	}
}
