package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

// BillsAPI is the bills resource of the store.
type BillsAPI interface {
	List(ctx context.Context) ([]*bill.Bill, error)
	Create(ctx context.Context, req CreateRequest) (*Created, error)
	Update(ctx context.Context, id uuid.UUID, b *bill.Bill) (*bill.Bill, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status bill.Status, commentAdmin string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateRequest uploads a receipt. The API answers with the key of the draft bill.
type CreateRequest struct {
	FileName string
	Content  io.Reader
	Email    string
}

type Created struct {
	Key      uuid.UUID `json:"key"`
	FileURL  string    `json:"fileUrl"`
	FileName string    `json:"fileName"`
}

type billsClient struct {
	c *Client
}

type billDTO struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	VAT          decimal.Decimal `json:"vat"`
	Pct          int             `json:"pct"`
	Commentary   string          `json:"commentary"`
	CommentAdmin string          `json:"commentAdmin,omitempty"`
	FileURL      string          `json:"fileUrl"`
	FileName     string          `json:"fileName"`
	Status       bill.Status     `json:"status,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitzero"`
}

func (d billDTO) toBill() *bill.Bill {
	b := &bill.Bill{
		ID:           d.ID,
		Email:        d.Email,
		Type:         d.Type,
		Name:         d.Name,
		Amount:       d.Amount,
		VAT:          d.VAT,
		Pct:          d.Pct,
		Commentary:   d.Commentary,
		CommentAdmin: d.CommentAdmin,
		FileURL:      d.FileURL,
		FileName:     d.FileName,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
	}

	if d.Date != "" {
		date, err := bill.ParseDate(d.Date)
		if err != nil {
			slog.Warn("bill with unreadable date", "id", d.ID, "date", d.Date)
		}

		b.Date = date
	}

	return b
}

func fromBill(b *bill.Bill) billDTO {
	d := billDTO{
		ID:         b.ID,
		Email:      b.Email,
		Type:       b.Type,
		Name:       b.Name,
		Amount:     b.Amount,
		VAT:        b.VAT,
		Pct:        b.Pct,
		Commentary: b.Commentary,
		FileURL:    b.FileURL,
		FileName:   b.FileName,
		Status:     b.Status,
	}

	if !b.Date.IsZero() {
		d.Date = b.Date.Format(time.DateOnly)
	}

	return d
}

func (bc *billsClient) List(ctx context.Context) ([]*bill.Bill, error) {
	var dtos []billDTO
	if err := bc.c.do(ctx, http.MethodGet, "/api/v1/bills", "", nil, &dtos); err != nil {
		return nil, err
	}

	bills := make([]*bill.Bill, len(dtos))
	for i, d := range dtos {
		bills[i] = d.toBill()
	}

	return bills, nil
}

func (bc *billsClient) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}

	if _, err := io.Copy(fw, req.Content); err != nil {
		return nil, fmt.Errorf("copying receipt: %w", err)
	}

	if err := mw.WriteField("email", req.Email); err != nil {
		return nil, fmt.Errorf("writing email field: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	var created Created
	if err := bc.c.do(ctx, http.MethodPost, "/api/v1/bills", mw.FormDataContentType(), body, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (bc *billsClient) Update(ctx context.Context, id uuid.UUID, b *bill.Bill) (*bill.Bill, error) {
	payload, err := json.Marshal(fromBill(b))
	if err != nil {
		return nil, fmt.Errorf("encoding bill: %w", err)
	}

	var out billDTO
	if err := bc.c.do(ctx, http.MethodPatch, "/api/v1/bills/"+id.String(), "application/json", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}

	return out.toBill(), nil
}

type statusRequest struct {
	Status       bill.Status `json:"status"`
	CommentAdmin string      `json:"commentAdmin"`
}

func (bc *billsClient) UpdateStatus(ctx context.Context, id uuid.UUID, status bill.Status, commentAdmin string) error {
	payload, err := json.Marshal(statusRequest{Status: status, CommentAdmin: commentAdmin})
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	return bc.c.do(ctx, http.MethodPatch, "/api/v1/bills/"+id.String()+"/status", "application/json", bytes.NewReader(payload), nil)
}

func (bc *billsClient) Delete(ctx context.Context, id uuid.UUID) error {
	return bc.c.do(ctx, http.MethodDelete, "/api/v1/bills/"+id.String(), "", nil, nil)
}
