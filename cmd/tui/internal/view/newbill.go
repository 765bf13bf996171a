package view

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/client"
	"github.com/MrJamesThe3rd/billed/internal/receipt"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type newBillState int

const (
	newBillStateForm newBillState = iota
	newBillStateFile
	newBillStateUploading
	newBillStateReview
)

// newBillFields holds the form values. It lives behind a pointer so the form bindings
// survive the model being copied by the update loop.
type newBillFields struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

// NewBillModel is the form an employee fills to send an expense report.
type NewBillModel struct {
	CommonModel
	store Store
	user  session.User

	state      newBillState
	form       *huh.Form
	fields     *newBillFields
	filePicker filepicker.Model

	// fileInput is the path currently held by the file control.
	fileInput string
	billID    uuid.UUID
	fileURL   string
	fileName  string
	submitted bool

	status string
}

func NewNewBillModel(store Store, sessions Sessions) NewBillModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := NewBillModel{
		store:      store,
		fields:     &newBillFields{Type: bill.Types[0], Pct: strconv.Itoa(bill.DefaultPct)},
		filePicker: fp,
	}

	if u, err := sessions.Load(); err == nil {
		m.user = u
	}

	m.form = m.buildForm()

	return m
}

func (m NewBillModel) Title() string { return "Envoyer une note de frais" }

func (m NewBillModel) ShortHelp() string {
	switch m.state {
	case newBillStateFile:
		return "Enter: choisir le justificatif | Esc: retour au formulaire"
	case newBillStateReview:
		return "Enter: envoyer | Esc: changer de justificatif"
	}

	return "Esc: annuler"
}

func (m NewBillModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m NewBillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileUploadedMsg:
		if msg.err != nil {
			slog.Error("uploading receipt", "error", msg.err)
			m.status = fmt.Sprintf("Envoi du justificatif impossible : %v", msg.err)
			m.fileInput = ""
			m.state = newBillStateFile

			return m, nil
		}

		previous := m.billID

		m.billID = msg.created.Key
		m.fileURL = msg.created.FileURL
		m.fileName = msg.created.FileName
		m.state = newBillStateReview

		if previous != uuid.Nil && previous != m.billID {
			return m, m.deleteDraftCmd(previous)
		}

		return m, nil

	case draftDeletedMsg:
		if msg.err != nil {
			slog.Warn("deleting draft bill", "id", msg.id, "error", msg.err)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.filePicker.SetHeight(max(msg.Height-12, 5))
	}

	switch m.state {
	case newBillStateForm:
		return m.updateForm(msg)
	case newBillStateFile:
		return m.updateFile(msg)
	case newBillStateReview:
		return m.updateReview(msg)
	}

	return m, nil
}

func (m NewBillModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, m.HandleCancel()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = newBillStateFile

	return m, m.filePicker.Init()
}

func (m NewBillModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = newBillStateForm
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		if upload := m.selectFile(path); upload != nil {
			return m, upload
		}
	}

	return m, cmd
}

// selectFile hands a picked path to HandleChangeFile and waits for the upload when it is accepted.
func (m *NewBillModel) selectFile(path string) tea.Cmd {
	upload := m.HandleChangeFile(path)
	if upload != nil {
		m.state = newBillStateUploading
	}

	return upload
}

func (m NewBillModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		m.state = newBillStateFile
		return m, m.filePicker.Init()
	case tea.KeyEnter:
		return m, m.HandleSubmit()
	}

	return m, nil
}

// HandleChangeFile reacts to a file being chosen. Receipts that are not images are refused:
// the file control is emptied and the previously uploaded receipt is kept.
// Accepted files are uploaded, the returned command reports the outcome.
func (m *NewBillModel) HandleChangeFile(path string) tea.Cmd {
	name := filepath.Base(path)

	if err := receipt.ValidateFileName(name); err != nil {
		slog.Info("receipt refused", "file", name, "error", err)
		m.fileInput = ""
		m.status = fmt.Sprintf("%s : seuls les fichiers jpg, jpeg et png sont acceptés", name)

		return nil
	}

	m.fileInput = path
	m.status = ""

	return m.uploadCmd(path, name)
}

// HandleCancel leaves the form for the bills list. A receipt uploaded for a bill that was
// never sent is deleted first so no empty draft stays behind.
func (m *NewBillModel) HandleCancel() tea.Cmd {
	if m.billID == uuid.Nil || m.submitted {
		return Navigate(RouteBills)
	}

	id := m.billID
	store := m.store
	m.billID = uuid.Nil

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		if err := store.Bills().Delete(ctx, id); err != nil {
			slog.Warn("deleting draft bill", "id", id, "error", err)
		}

		return NavigateMsg{Route: RouteBills}
	}
}

// HandleSubmit sends the filled bill and returns to the bills list.
// The bill is written once; a second call does nothing.
func (m *NewBillModel) HandleSubmit() tea.Cmd {
	if m.submitted {
		return nil
	}

	m.submitted = true

	return m.updateBillCmd(m.buildBill())
}

func (m NewBillModel) FileInput() string  { return m.fileInput }
func (m NewBillModel) FileName() string   { return m.fileName }
func (m NewBillModel) FileURL() string    { return m.fileURL }
func (m NewBillModel) BillID() uuid.UUID  { return m.billID }
func (m NewBillModel) StatusLine() string { return m.status }

func (m NewBillModel) View() string {
	title := titleStyle.Render(m.Title())

	var body string

	switch m.state {
	case newBillStateForm:
		body = fmt.Sprintf("(%s)\n%s", TestIDFormNewBill, m.form.View())
	case newBillStateFile:
		body = fmt.Sprintf("Justificatif (%s) : jpg, jpeg ou png\n\n%s", TestIDFile, m.filePicker.View())
	case newBillStateUploading:
		body = fmt.Sprintf("Envoi de %s...", filepath.Base(m.fileInput))
	case newBillStateReview:
		body = m.viewReview()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, helpStyle.Render(m.ShortHelp()))

	if m.status != "" {
		content = errorStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m NewBillModel) viewReview() string {
	f := m.fields

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(fmt.Sprintf(
			"Type : %s\nNom : %s\nDate : %s\nMontant TTC : %s\nTVA : %s (%s %%)\nCommentaire : %s\nJustificatif : %s",
			f.Type, f.Name, f.Date, f.Amount, f.VAT, f.Pct, f.Commentary, m.fileName,
		))
}

func (m NewBillModel) buildForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("expense-type").
				Title("Type de dépense").
				Options(huh.NewOptions(bill.Types...)...).
				Value(&f.Type),

			huh.NewInput().
				Key("expense-name").
				Title("Nom de la dépense").
				Placeholder("Vol Paris Londres").
				Value(&f.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("le nom est requis")
					}
					return nil
				}),

			huh.NewInput().
				Key("datepicker").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					_, err := bill.ParseDate(strings.TrimSpace(s))
					return err
				}),

			huh.NewInput().
				Key("amount").
				Title("Montant TTC").
				Placeholder("348").
				Value(&f.Amount).
				Validate(func(s string) error {
					d, err := parseDecimal(s)
					if err != nil || !d.IsPositive() {
						return errors.New("montant invalide")
					}
					return nil
				}),

			huh.NewInput().
				Key("vat").
				Title("TVA").
				Placeholder("70").
				Value(&f.VAT).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := parseDecimal(s); err != nil {
						return errors.New("TVA invalide")
					}
					return nil
				}),

			huh.NewInput().
				Key("pct").
				Title("%").
				Placeholder(strconv.Itoa(bill.DefaultPct)).
				Value(&f.Pct).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					p, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || p < 0 || p > 100 {
						return errors.New("pourcentage entre 0 et 100")
					}
					return nil
				}),

			huh.NewText().
				Key("commentary").
				Title("Commentaire").
				Value(&f.Commentary),
		),
	).WithWidth(60).WithShowHelp(false)
}

// buildBill turns the form values into the bill sent to the store.
// Unreadable numbers are left at zero and rejected by the API.
func (m NewBillModel) buildBill() *bill.Bill {
	f := m.fields

	b := &bill.Bill{
		ID:         m.billID,
		Email:      m.user.Email,
		Type:       f.Type,
		Name:       strings.TrimSpace(f.Name),
		Commentary: f.Commentary,
		FileURL:    m.fileURL,
		FileName:   m.fileName,
		Status:     bill.StatusPending,
		Pct:        bill.DefaultPct,
	}

	if d, err := bill.ParseDate(strings.TrimSpace(f.Date)); err == nil {
		b.Date = d
	}

	if a, err := parseDecimal(f.Amount); err == nil {
		b.Amount = a
	}

	if v, err := parseDecimal(f.VAT); err == nil {
		b.VAT = v
	}

	if p, err := strconv.Atoi(strings.TrimSpace(f.Pct)); err == nil {
		b.Pct = p
	}

	return b
}

// parseDecimal accepts both "12.5" and "12,5".
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// Messages

type fileUploadedMsg struct {
	created *client.Created
	err     error
}

func (m NewBillModel) uploadCmd(path, name string) tea.Cmd {
	store := m.store
	email := m.user.Email

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return fileUploadedMsg{err: fmt.Errorf("opening receipt: %w", err)}
		}
		defer f.Close()

		ctx, cancel := RequestCtx()
		defer cancel()

		created, err := store.Bills().Create(ctx, client.CreateRequest{
			FileName: name,
			Content:  f,
			Email:    email,
		})
		if err != nil {
			return fileUploadedMsg{err: err}
		}

		return fileUploadedMsg{created: created}
	}
}

type draftDeletedMsg struct {
	id  uuid.UUID
	err error
}

func (m NewBillModel) deleteDraftCmd(id uuid.UUID) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		return draftDeletedMsg{id: id, err: store.Bills().Delete(ctx, id)}
	}
}

func (m NewBillModel) updateBillCmd(b *bill.Bill) tea.Cmd {
	store := m.store

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		if _, err := store.Bills().Update(ctx, b.ID, b); err != nil {
			slog.Error("updating bill", "id", b.ID, "error", err)
			return NavigateMsg{Route: RouteBills, Notice: err.Error()}
		}

		return NavigateMsg{Route: RouteBills}
	}
}
