package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_CreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", config.ServerURL)
	require.False(t, config.Admin)
	require.Equal(t, "Uploaded: {{ .Filename }}", config.Upload.SuccessTemplate)
	require.Equal(t, time.Duration(0), config.Timeout())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParse_FillsMissingFieldsFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server_url": "https://notebook.example.com", "admin": true, "request_timeout": 30, "upload": {"file_extensions": [".pdf"]}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "https://notebook.example.com", config.ServerURL)
	require.True(t, config.Admin)
	require.Equal(t, 30*time.Second, config.Timeout())
	require.Equal(t, []string{".pdf"}, config.Upload.FileExtensions)
	require.Equal(t, "Uploaded: {{ .Filename }}", config.Upload.SuccessTemplate)
	require.Equal(t, "/tmp/notebook-debug.log", config.LogFile)
	require.NotEmpty(t, config.Chat.HistoryFile)
}

func TestParse_RejectsInvalidServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url": "ftp://example.com"}`), 0644))

	_, err := Parse(path)
	require.Error(t, err)
}

func TestParse_RejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Parse(path)
	require.Error(t, err)
}

func TestParse_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server_url": "https://notebook.example.com"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Parse(path)
	require.NoError(t, err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, string(written))
}

func TestParse_RejectsDirectory(t *testing.T) {
	_, err := Parse(t.TempDir())
	require.Error(t, err)
}

func TestDefault_ReturnsCopy(t *testing.T) {
	config := Default()
	config.Upload.FileExtensions = append(config.Upload.FileExtensions, ".md")
	config.ServerURL = "http://other"
	require.Empty(t, Default().Upload.FileExtensions)
	require.Equal(t, "http://localhost:8000", Default().ServerURL)
}
