package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

// Item represents a single exported bill with its local receipt path.
type Item struct {
	Bill     *bill.Bill
	FilePath string
}

// Lister is the part of the store the export needs.
type Lister interface {
	List(ctx context.Context) ([]*bill.Bill, error)
}

// Service downloads the receipts of the listed bills.
type Service struct {
	bills  Lister
	client *http.Client
	token  func() string
}

// NewService creates a new export Service. token is read before every download.
func NewService(bills Lister, token func() string) *Service {
	return &Service{
		bills:  bills,
		client: &http.Client{Timeout: 30 * time.Second},
		token:  token,
	}
}

// Export downloads the receipt of every listed bill to outputDir.
// It returns a list of items linking bills to their downloaded files.
func (s *Service) Export(ctx context.Context, outputDir string) ([]Item, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(bills))

	for _, b := range bills {
		item := Item{
			Bill: b,
		}

		if b.FileURL != "" {
			path, err := s.downloadReceipt(ctx, b, outputDir)
			if err != nil {
				return nil, fmt.Errorf("downloading receipt for bill %s: %w", b.ID, err)
			}

			item.FilePath = path
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *Service) downloadReceipt(ctx context.Context, b *bill.Bill, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	if s.token != nil {
		if token := s.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, b.FileURL)
	}

	path := filepath.Join(dir, s.determineFilename(resp, b))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

func (s *Service) determineFilename(resp *http.Response, b *bill.Bill) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return receipt.SanitizeName(filepath.Base(filename))
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(b.FileName))
	if ext == "" || ext == "." {
		ext = ".jpg"

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
				ext = exts[0]
			}
		}
	}

	// Format: YYYYMMDD_Name.ext
	return fmt.Sprintf("%s_%s%s", b.Date.Format("20060102"), receipt.SanitizeName(b.Name), ext)
}

// GenerateSummary renders one line per exported bill.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		fileStatus := "Sans justificatif"
		if item.FilePath != "" {
			fileStatus = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s € | %s | %s\n",
			item.Bill.Date.Format(time.DateOnly),
			item.Bill.Type,
			item.Bill.Name,
			item.Bill.Amount.StringFixed(2),
			item.Bill.Status.Label(),
			fileStatus,
		)
	}

	return sb.String()
}
