package view

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type dashboardState int

const (
	dashboardStateBrowse dashboardState = iota
	dashboardStateRefuse
)

var statusOrder = []bill.Status{bill.StatusPending, bill.StatusAccepted, bill.StatusRefused}

// DashboardModel lets an admin review the bills of every employee.
type DashboardModel struct {
	CommonModel
	store Store
	modal Modal

	state dashboardState
	table table.Model
	all   []*bill.Bill
	bills []*bill.Bill
	form  *huh.Form

	// 0 shows every status, i > 0 shows statusOrder[i-1].
	statusFilterIdx int
	commentAdmin    *string

	loading bool
	err     error
	status  string
}

func NewDashboardModel(store Store, modal Modal) DashboardModel {
	columns := []table.Column{
		{Title: "Statut", Width: 12},
		{Title: "Employé", Width: 24},
		{Title: "Type", Width: 22},
		{Title: "Nom", Width: 24},
		{Title: "Date", Width: 12},
		{Title: "Montant", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		store:        store,
		modal:        modal,
		table:        t,
		loading:      true,
		commentAdmin: new(string),
	}
}

func (m DashboardModel) Title() string { return "Validations" }

func (m DashboardModel) ShortHelp() string {
	if m.modal.Visible() {
		return "Esc: fermer"
	}

	if m.state == dashboardStateRefuse {
		return "Enter: refuser | Esc: annuler"
	}

	return "a: accepter | r: refuser | Enter/v: justificatif | s: filtre statut | R: actualiser | ctrl+l: déconnexion"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case billsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.bills
		m.refreshTable()

		return m, nil

	case statusUpdatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Mise à jour impossible : %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Note %s : %s", msg.name, msg.status.Label())

		return m, m.loadBillsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	if m.state == dashboardStateRefuse {
		return m.updateRefuse(msg)
	}

	return m.updateBrowse(msg)
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		if m.modal.Visible() {
			if keyMsg.Type == tea.KeyEsc {
				m.modal.Hide()
			}

			return m, nil
		}

		switch keyMsg.String() {
		case "a":
			b := m.selected()
			if b == nil {
				return m, nil
			}

			return m, m.updateStatusCmd(b, bill.StatusAccepted, "")
		case "r":
			return m.enterRefuseMode()
		case "enter", "v":
			if b := m.selected(); b != nil {
				m.modal.Show(b.Name, b.FileURL)
			}

			return m, nil
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % (len(statusOrder) + 1)
			m.refreshTable()

			return m, nil
		case "R":
			m.loading = true
			return m, m.loadBillsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) enterRefuseMode() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	*m.commentAdmin = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("commentAdmin").
				Title("Motif du refus").
				Value(m.commentAdmin),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = dashboardStateRefuse
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) updateRefuse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashboardStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	b := m.selected()
	m.state = dashboardStateBrowse
	m.form = nil
	m.table.Focus()

	if b == nil {
		return m, nil
	}

	return m, m.updateStatusCmd(b, bill.StatusRefused, *m.commentAdmin)
}

// Bills returns the bills shown with the current filter, in display order.
func (m DashboardModel) Bills() []*bill.Bill {
	return m.bills
}

func (m DashboardModel) View() string {
	title := titleStyle.Render(m.Title())

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(title + "\nChargement...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(title + "\n" + errorStyle.Render(m.err.Error()))
	}

	filterLabel := "Tous"
	if m.statusFilterIdx > 0 {
		filterLabel = statusOrder[m.statusFilterIdx-1].Label()
	}

	header := fmt.Sprintf("Filtre : [s] Statut : %s | %d note(s)", activeIconStyle.Render(filterLabel), len(m.bills))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		helpStyle.Render(m.ShortHelp()),
	)

	switch {
	case m.state == dashboardStateRefuse && m.form != nil:
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	case m.modal.Visible():
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.modal.View())
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DashboardModel) refreshTable() {
	m.bills = groupByStatus(m.all)

	if m.statusFilterIdx > 0 {
		want := statusOrder[m.statusFilterIdx-1]
		m.bills = slices.DeleteFunc(m.bills, func(b *bill.Bill) bool { return b.Status != want })
	}

	rows := make([]table.Row, 0, len(m.bills))
	for _, b := range m.bills {
		rows = append(rows, table.Row{
			b.Status.Label(),
			b.Email,
			b.Type,
			b.Name,
			FormatDate(b.Date),
			FormatAmount(b.Amount),
		})
	}

	m.table.SetRows(rows)
}

// groupByStatus returns a copy of bills ordered by status, then by date descending.
func groupByStatus(bills []*bill.Bill) []*bill.Bill {
	grouped := slices.Clone(bills)
	bill.SortByDateDesc(grouped)

	slices.SortStableFunc(grouped, func(a, b *bill.Bill) int {
		return statusRank(a.Status) - statusRank(b.Status)
	})

	return grouped
}

func statusRank(s bill.Status) int {
	if i := slices.Index(statusOrder, s); i >= 0 {
		return i
	}

	return len(statusOrder)
}

func (m DashboardModel) selected() *bill.Bill {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return nil
	}

	return m.bills[idx]
}

// Messages

type statusUpdatedMsg struct {
	name   string
	status bill.Status
	err    error
}

func (m DashboardModel) loadBillsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		bills, err := m.store.Bills().List(ctx)
		return billsLoadedMsg{bills: bills, err: err}
	}
}

func (m DashboardModel) updateStatusCmd(b *bill.Bill, status bill.Status, commentAdmin string) tea.Cmd {
	id := b.ID
	name := b.Name

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		err := m.store.Bills().UpdateStatus(ctx, id, status, commentAdmin)
		return statusUpdatedMsg{name: name, status: status, err: err}
	}
}
