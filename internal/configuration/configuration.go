package configuration

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/malonaz/notebook/internal/file"
)

// DefaultPath is where the configuration lives unless overridden.
const DefaultPath = "~/.config/notebook/config.json"

var defaultConfig = Config{
	ServerURL:      "http://localhost:8000",
	RequestTimeout: 0,
	LogFile:        "/tmp/notebook-debug.log",

	Upload: UploadConfig{
		Directory:       "~",
		FileExtensions:  []string{},
		SuccessTemplate: "Uploaded: {{ .Filename }}",
	},

	Chat: ChatConfig{
		HistoryFile: "~/.config/notebook/chat_history",
	},
}

// Config holds configuration for the notebook client.
type Config struct {
	// Base url of the notebook server.
	ServerURL string `json:"server_url"`
	// Whether delete affordances are rendered. Read once per session.
	Admin bool `json:"admin"`
	// Prefills the credential input sent along with chat queries.
	APIKey string `json:"api_key"`
	// Seconds before a request is abandoned. 0 disables the timeout.
	RequestTimeout int `json:"request_timeout"`
	// Debug log destination.
	LogFile string `json:"log_file"`

	Upload UploadConfig `json:"upload"`
	Chat   ChatConfig   `json:"chat"`
}

// UploadConfig holds configuration for document uploads.
type UploadConfig struct {
	// The directory the file picker opens in.
	Directory string `json:"directory"`
	// We only offer files with the given extensions. Empty means all files.
	FileExtensions []string `json:"file_extensions"`
	// Template of the status shown after a successful upload.
	SuccessTemplate string `json:"success_template"`
}

// ChatConfig holds configuration for the chat.
type ChatConfig struct {
	// Allows submitting a query while another one is still in flight.
	AllowConcurrentQueries bool `json:"allow_concurrent_queries"`
	// Where submitted queries are persisted for recall.
	HistoryFile string `json:"history_file"`
}

// Default returns a copy of the default configuration.
func Default() *Config {
	config := defaultConfig
	config.Upload.FileExtensions = append([]string{}, defaultConfig.Upload.FileExtensions...)
	return &config
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, Default()); err != nil {
		return nil, errors.Wrap(err, "merging default config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Upload.Directory, err = file.ExpandPath(config.Upload.Directory)
	if err != nil {
		return nil, errors.Wrap(err, "expanding upload directory path")
	}
	config.Chat.HistoryFile, err = file.ExpandPath(config.Chat.HistoryFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding chat history path")
	}
	return config, nil
}

// Validate the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return errors.Wrapf(err, "parsing server url (%s)", c.ServerURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("server url must be http or https (%s)", c.ServerURL)
	}
	if c.RequestTimeout < 0 {
		return errors.Errorf("request timeout must not be negative (%d)", c.RequestTimeout)
	}
	return nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	exists, err := file.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := file.CreateDirectoryIfNotExist(dir); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := Default().save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
