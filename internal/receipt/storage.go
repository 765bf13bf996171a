package receipt

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrTooLarge    = errors.New("receipt exceeds size limit")
	ErrInvalidKey  = errors.New("invalid receipt key")
	ErrKeyNotFound = errors.New("receipt not found")
)

// Stored describes a receipt written to storage.
type Stored struct {
	Key      string
	URL      string
	FileName string
}

// Storage keeps receipts as files under a base directory and exposes them under publicURL.
type Storage struct {
	baseDir   string
	publicURL string
	maxSize   int64
}

func NewStorage(baseDir, publicURL string, maxSize int64) *Storage {
	return &Storage{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   maxSize,
	}
}

// Save validates the extension of originalName and writes r under a fresh key.
func (s *Storage) Save(originalName string, r io.Reader) (*Stored, error) {
	if err := ValidateFileName(originalName); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating receipts directory: %w", err)
	}

	fileName := SanitizeName(filepath.Base(originalName))
	key := uuid.NewString() + "_" + fileName
	path := filepath.Join(s.baseDir, key)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	if n > s.maxSize {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, s.maxSize)
	}

	slog.Debug("receipt stored", "key", key, "bytes", n)

	return &Stored{
		Key:      key,
		URL:      s.publicURL + "/" + key,
		FileName: fileName,
	}, nil
}

// Open returns the receipt stored under key. The caller closes it.
func (s *Storage) Open(key string) (*os.File, error) {
	if err := s.validateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}

		return nil, fmt.Errorf("opening receipt: %w", err)
	}

	return f, nil
}

func (s *Storage) validateKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}

// SanitizeName folds accents and replaces anything outside [A-Za-z0-9._-] with an underscore.
func SanitizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, folded)
}
