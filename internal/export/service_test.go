package export

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type mockLister struct {
	bills []*bill.Bill
	err   error
}

func (m *mockLister) List(context.Context) ([]*bill.Bill, error) {
	return m.bills, m.err
}

func TestExportService_Export(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if r.URL.Path == "/receipts/named.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Header().Set("Content-Disposition", "inline; filename=\"facture 123.jpg\"")
			w.Write([]byte("fake jpg content"))

			return
		}

		if r.URL.Path == "/receipts/unnamed" {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("fake png content"))

			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	tmpDir := t.TempDir()
	date := time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC)

	b1 := &bill.Bill{ID: uuid.New(), Name: "Train", Type: "Transports", Date: date, Amount: decimal.NewFromInt(10), Status: bill.StatusPending, FileURL: ts.URL + "/receipts/named.jpg", FileName: "named.jpg"}
	b2 := &bill.Bill{ID: uuid.New(), Name: "Hôtel Lyon", Type: "Hôtel et logement", Date: date, Amount: decimal.NewFromInt(120), Status: bill.StatusAccepted, FileURL: ts.URL + "/receipts/unnamed", FileName: "scan.png"}
	b3 := &bill.Bill{ID: uuid.New(), Name: "Café", Type: "Restaurants et bars", Date: date, Amount: decimal.NewFromFloat(2.5), Status: bill.StatusRefused}

	svc := NewService(&mockLister{bills: []*bill.Bill{b1, b2, b3}}, func() string { return "tok" })

	items, err := svc.Export(context.Background(), tmpDir)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, filepath.Join(tmpDir, "facture_123.jpg"), items[0].FilePath)
	assert.Equal(t, filepath.Join(tmpDir, "20231027_Hotel_Lyon.png"), items[1].FilePath)
	assert.Empty(t, items[2].FilePath)

	content, err := os.ReadFile(items[0].FilePath)
	require.NoError(t, err)
	assert.Equal(t, "fake jpg content", string(content))

	summary := svc.GenerateSummary(items)
	lines := strings.Split(strings.TrimSpace(summary), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "* 2023-10-27 | Transports | Train | 10.00 € | En attente | facture_123.jpg", lines[0])
	assert.Contains(t, lines[2], "Sans justificatif")
}

func TestExportService_ListError(t *testing.T) {
	svc := NewService(&mockLister{err: errors.New("Erreur 500")}, nil)

	_, err := svc.Export(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "Erreur 500")
}

func TestExportService_DownloadFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	b := &bill.Bill{ID: uuid.New(), FileURL: ts.URL + "/receipts/missing.jpg"}
	svc := NewService(&mockLister{bills: []*bill.Bill{b}}, nil)

	_, err := svc.Export(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "unexpected status code 404")
}
