package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/export"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

// Exporter downloads the receipts of the listed bills.
type Exporter interface {
	Export(ctx context.Context, outputDir string) ([]export.Item, error)
	GenerateSummary(items []export.Item) string
}

// BillsModel lists the bills of the connected employee.
type BillsModel struct {
	CommonModel
	store    Store
	modal    Modal
	exporter Exporter

	user      session.User
	exportDir string

	table   table.Model
	bills   []*bill.Bill
	loading bool
	err     error
	status  string
}

type BillsOptions struct {
	Exporter  Exporter
	ExportDir string
	// Notice is shown above the table, typically the outcome of the previous screen.
	Notice string
}

func NewBillsModel(store Store, sessions Sessions, modal Modal, opts BillsOptions) BillsModel {
	columns := []table.Column{
		{Title: "Type", Width: 22},
		{Title: "Nom", Width: 24},
		{Title: "Date", Width: 12},
		{Title: "Montant", Width: 12},
		{Title: "Statut", Width: 12},
		{Title: "Actions", Width: 8},
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

	m := BillsModel{
		store:     store,
		modal:     modal,
		exporter:  opts.Exporter,
		exportDir: opts.ExportDir,
		table:     t,
		loading:   true,
		status:    opts.Notice,
	}

	if u, err := sessions.Load(); err == nil {
		m.user = u
	}

	return m
}

func (m BillsModel) Title() string { return "Mes notes de frais" }

func (m BillsModel) ShortHelp() string {
	if m.modal.Visible() {
		return "Esc: fermer"
	}

	return "n: nouvelle note | Enter/v: justificatif | x: exporter | r: actualiser | ctrl+l: déconnexion"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case billsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.bills = msg.bills
		m.refreshTable()

		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export impossible : %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("%d note(s) exportée(s) dans %s\n%s", msg.count, m.exportDir, msg.summary)

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil

	case tea.KeyMsg:
		if m.modal.Visible() {
			if msg.Type == tea.KeyEsc {
				m.modal.Hide()
			}

			return m, nil
		}

		switch msg.String() {
		case "n":
			return m, m.HandleClickNewBill()
		case "enter", "v":
			m.HandleClickIconEye(m.selected())
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadBillsCmd()
		case "x":
			return m, m.exportCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// HandleClickNewBill opens the new bill form.
func (m BillsModel) HandleClickNewBill() tea.Cmd {
	return Navigate(RouteNewBill)
}

// HandleClickIconEye opens the modal on the receipt of b.
func (m BillsModel) HandleClickIconEye(b *bill.Bill) {
	if b == nil {
		return
	}

	m.modal.Show(b.Name, b.FileURL)
}

// Bills returns the bills in display order.
func (m BillsModel) Bills() []*bill.Bill {
	return m.bills
}

// Rows returns the table rows as rendered.
func (m BillsModel) Rows() []table.Row {
	return m.table.Rows()
}

func (m BillsModel) Err() error {
	return m.err
}

func (m BillsModel) StatusLine() string {
	return m.status
}

func (m BillsModel) View() string {
	content := m.viewBody()

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BillsModel) viewBody() string {
	title := titleStyle.Render(m.Title())

	if m.loading {
		return title + "\nChargement..."
	}

	if m.err != nil {
		return title + "\n" + errorStyle.Render(m.err.Error())
	}

	header := fmt.Sprintf("%s  [n] Nouvelle note de frais (%s)", m.user.Email, TestIDBtnNewBill)

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

	if m.modal.Visible() {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.modal.View())
	}

	return content
}

func (m *BillsModel) refreshTable() {
	bill.SortByDateDesc(m.bills)

	rows := make([]table.Row, 0, len(m.bills))
	for _, b := range m.bills {
		rows = append(rows, table.Row{
			b.Type,
			b.Name,
			FormatDate(b.Date),
			FormatAmount(b.Amount),
			b.Status.Label(),
			"👁",
		})
	}

	m.table.SetRows(rows)
}

func (m BillsModel) selected() *bill.Bill {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return nil
	}

	return m.bills[idx]
}

// Messages

type billsLoadedMsg struct {
	bills []*bill.Bill
	err   error
}

func (m BillsModel) loadBillsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		bills, err := m.store.Bills().List(ctx)
		return billsLoadedMsg{bills: bills, err: err}
	}
}

type exportDoneMsg struct {
	count   int
	summary string
	err     error
}

func (m BillsModel) exportCmd() tea.Cmd {
	if m.exporter == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		items, err := m.exporter.Export(ctx, m.exportDir)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{count: len(items), summary: m.exporter.GenerateSummary(items)}
	}
}
