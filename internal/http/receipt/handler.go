package receipt

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

type Handler struct {
	storage *receipt.Storage
}

func NewHandler(storage *receipt.Storage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{key}", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	f, err := h.storage.Open(key)
	if err != nil {
		switch {
		case errors.Is(err, receipt.ErrInvalidKey):
			http.Error(w, "invalid receipt key", http.StatusBadRequest)
		case errors.Is(err, receipt.ErrKeyNotFound):
			http.Error(w, "receipt not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}
	defer f.Close()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": key}))

	var modTime time.Time
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}

	http.ServeContent(w, r, key, modTime, f)
}
