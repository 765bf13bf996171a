package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type billResponse struct {
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
	Status       bill.Status     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

type createResponse struct {
	Key      uuid.UUID `json:"key"`
	FileURL  string    `json:"fileUrl"`
	FileName string    `json:"fileName"`
}

func toResponse(b *bill.Bill) billResponse {
	resp := billResponse{
		ID:           b.ID,
		Email:        b.Email,
		Type:         b.Type,
		Name:         b.Name,
		Amount:       b.Amount,
		VAT:          b.VAT,
		Pct:          b.Pct,
		Commentary:   b.Commentary,
		CommentAdmin: b.CommentAdmin,
		FileURL:      b.FileURL,
		FileName:     b.FileName,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}

	if !b.Date.IsZero() {
		resp.Date = b.Date.Format(time.DateOnly)
	}

	return resp
}

func toResponseList(bills []*bill.Bill) []billResponse {
	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toResponse(b)
	}

	return resp
}
