package bill

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	CreateBill(ctx context.Context, b *Bill) error
	GetBill(ctx context.Context, id uuid.UUID) (*Bill, error)
	UpdateBill(ctx context.Context, b *Bill) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, commentAdmin string) error
	ListBills(ctx context.Context, filter ListFilter) ([]*Bill, error)
	DeleteBill(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams describes the draft record created when a receipt is uploaded.
type CreateParams struct {
	Email    string
	FileURL  string
	FileName string
}

type ListFilter struct {
	Email  *string
	Status *Status
}

// Create stores a pending bill holding only the receipt. The remaining fields arrive with Update.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Bill, error) {
	b := &Bill{
		Email:    params.Email,
		FileURL:  params.FileURL,
		FileName: params.FileName,
		Status:   StatusPending,
		Pct:      DefaultPct,
		Amount:   decimal.Zero,
		VAT:      decimal.Zero,
	}

	if err := s.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// List returns the bills matching filter, most recent first. Drafts are left out.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Bill, error) {
	bills, err := s.repo.ListBills(ctx, filter)
	if err != nil {
		return nil, err
	}

	bills = slices.DeleteFunc(bills, (*Bill).IsDraft)
	SortByDateDesc(bills)

	return bills, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.repo.GetBill(ctx, id)
}

// Update overwrites the bill identified by b.ID with the submitted fields.
// The receipt, owner and status always come from the stored record, only the upload sets the receipt.
// Bills an admin already accepted or refused cannot change.
func (s *Service) Update(ctx context.Context, b *Bill) error {
	existing, err := s.repo.GetBill(ctx, b.ID)
	if err != nil {
		return err
	}

	if existing.Status != StatusPending {
		return fmt.Errorf("%w: %s", ErrReviewed, existing.Status)
	}

	b.FileURL = existing.FileURL
	b.FileName = existing.FileName
	b.Email = existing.Email
	b.Status = existing.Status
	b.CommentAdmin = existing.CommentAdmin

	if err := b.Validate(); err != nil {
		return err
	}

	return s.repo.UpdateBill(ctx, b)
}

// UpdateStatus records an admin decision. Only complete bills can be reviewed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, commentAdmin string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBill, status)
	}

	existing, err := s.repo.GetBill(ctx, id)
	if err != nil {
		return err
	}

	if err := existing.Validate(); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, id, status, commentAdmin)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBill(ctx, id)
}

// ParseDate reads the ISO date format bills travel with.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %w", ErrInvalidBill, s, err)
	}

	return t, nil
}
