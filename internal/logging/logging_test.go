package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/logging"
)

func TestSetupWriter_NoColorOutsideTerminal(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logging.SetupWriter(&buf, "debug")

	slog.Error("upload failed", "error", "Erreur 500")
	slog.Debug("receipt stored", "key", "k_image.jpg")

	out := buf.String()
	assert.Contains(t, out, "upload failed")
	assert.Contains(t, out, "receipt stored")
	assert.NotContains(t, out, "\x1b[")
}

func TestSetupWriter_LogFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	f, err := os.Create(filepath.Join(t.TempDir(), "billed.log"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, logging.IsTerminal(f))

	logging.SetupWriter(f, "info")
	slog.Warn("deleting draft bill", "id", "42")

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(content), "deleting draft bill")
	assert.NotContains(t, string(content), "\x1b[")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}
