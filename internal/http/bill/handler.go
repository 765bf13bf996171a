package bill

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/auth"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

const maxUploadMemory = 10 << 20

type Handler struct {
	svc      *bill.Service
	receipts *receipt.Storage
}

func NewHandler(svc *bill.Service, receipts *receipt.Storage) *Handler {
	return &Handler{svc: svc, receipts: receipts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.With(auth.RequireAdmin).Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	filter := bill.ListFilter{}
	if claims.Type != auth.TypeAdmin {
		filter.Email = new(claims.Email)
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(bill.Status(s))
	}

	bills, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(bills))
}

// create receives the receipt upload and records a pending bill holding it.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	stored, err := h.receipts.Save(header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.svc.Create(r.Context(), bill.CreateParams{
		Email:    claims.Email,
		FileURL:  stored.URL,
		FileName: stored.FileName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("receipt uploaded", "bill_id", b.ID, "email", claims.Email, "file", stored.FileName)

	writeJSON(w, http.StatusCreated, createResponse{
		Key:      b.ID,
		FileURL:  b.FileURL,
		FileName: b.FileName,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), b.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateBillRequest struct {
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	VAT        decimal.Decimal `json:"vat"`
	Pct        *int            `json:"pct,omitempty"`
	Commentary string          `json:"commentary"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req updateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := bill.ParseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	pct := bill.DefaultPct
	if req.Pct != nil {
		pct = *req.Pct
	}

	b := &bill.Bill{
		ID:           existing.ID,
		Email:        existing.Email,
		Type:         req.Type,
		Name:         req.Name,
		Date:         date,
		Amount:       req.Amount,
		VAT:          req.VAT,
		Pct:          pct,
		Commentary:   req.Commentary,
		CommentAdmin: existing.CommentAdmin,
		FileURL:      existing.FileURL,
		FileName:     existing.FileName,
		Status:       existing.Status,
		CreatedAt:    existing.CreatedAt,
	}

	if err := h.svc.Update(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(b))
}

type updateStatusRequest struct {
	Status       bill.Status `json:"status"`
	CommentAdmin string      `json:"commentAdmin"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status, req.CommentAdmin); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadOwned fetches the bill in the URL. Employees only see their own bills.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*bill.Bill, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	claims, _ := auth.FromContext(r.Context())
	if claims.Type != auth.TypeAdmin && b.Email != claims.Email {
		writeError(w, bill.ErrNotFound)
		return nil, false
	}

	return b, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bill.ErrNotFound):
		http.Error(w, "bill not found", http.StatusNotFound)
	case errors.Is(err, bill.ErrReviewed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, bill.ErrInvalidBill),
		errors.Is(err, receipt.ErrUnsupportedExtension),
		errors.Is(err, receipt.ErrTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("bill request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
