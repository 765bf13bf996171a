package bill

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

var (
	ErrNotFound    = errors.New("bill not found")
	ErrInvalidBill = errors.New("invalid bill")
	ErrReviewed    = errors.New("bill already reviewed")
)

// Status represents the review state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Label returns the text shown to users for the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refused"
	}

	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}

	return false
}

// Types lists the expense categories an employee can pick from.
var Types = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

const DefaultPct = 20

// Bill is one expense report submitted by an employee.
type Bill struct {
	ID           uuid.UUID
	Email        string
	Type         string
	Name         string
	Date         time.Time
	Amount       decimal.Decimal
	VAT          decimal.Decimal
	Pct          int
	Commentary   string
	CommentAdmin string
	FileURL      string
	FileName     string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
}

// IsDraft reports whether b only holds an uploaded receipt and was never filled in.
func (b *Bill) IsDraft() bool {
	return b.Type == ""
}

// Validate checks the fields a submitted bill must carry.
func (b *Bill) Validate() error {
	if !slices.Contains(Types, b.Type) {
		return fmt.Errorf("%w: unknown expense type %q", ErrInvalidBill, b.Type)
	}

	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBill)
	}

	if b.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidBill)
	}

	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBill)
	}

	if b.VAT.IsNegative() {
		return fmt.Errorf("%w: vat cannot be negative", ErrInvalidBill)
	}

	if b.Pct < 0 || b.Pct > 100 {
		return fmt.Errorf("%w: pct must be between 0 and 100", ErrInvalidBill)
	}

	if b.FileName != "" {
		if err := receipt.ValidateFileName(b.FileName); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBill, err)
		}
	}

	if b.Status != "" && !b.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBill, b.Status)
	}

	return nil
}

// SortByDateDesc orders bills most recent first. Bills sharing a date keep their relative order.
func SortByDateDesc(bills []*Bill) {
	slices.SortStableFunc(bills, func(a, b *Bill) int {
		return b.Date.Compare(a.Date)
	})
}
