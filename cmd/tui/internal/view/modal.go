package view

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Modal displays a bill receipt above the current screen.
type Modal interface {
	Show(title, fileURL string)
	Hide()
	Visible() bool
	View() string
}

// ReceiptModal is the default Modal. It shows the receipt location, terminals cannot draw the image.
type ReceiptModal struct {
	title   string
	fileURL string
	visible bool
}

func NewReceiptModal() *ReceiptModal {
	return &ReceiptModal{}
}

func (m *ReceiptModal) Show(title, fileURL string) {
	m.title = title
	m.fileURL = fileURL
	m.visible = true
}

func (m *ReceiptModal) Hide() {
	m.visible = false
}

func (m *ReceiptModal) Visible() bool {
	return m.visible
}

func (m *ReceiptModal) View() string {
	if !m.visible {
		return ""
	}

	body := "Aucun justificatif"
	if m.fileURL != "" {
		body = m.fileURL
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(fmt.Sprintf("Justificatif\n%s\n\n%s\n\n(Esc pour fermer)", m.title, body))
}
