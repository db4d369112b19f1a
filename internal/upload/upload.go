package upload

import (
	"bytes"
	"context"
	"log/slog"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/malonaz/notebook/internal/api"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/debug"
	"github.com/malonaz/notebook/internal/file"
	"github.com/malonaz/notebook/internal/surface"
)

// Status texts.
const (
	UploadingText = "Uploading..."
	ErrorText     = "Error uploading."
	FailedText    = "Upload failed."
)

var errEmptyFilename = errors.New("server did not report a filename")

// Client is the subset of the api client used by the controller.
type Client interface {
	Upload(ctx context.Context, filename string, content []byte) (*api.UploadResponse, error)
}

// Registry receives documents once the server confirms their upload.
type Registry interface {
	Add(filename string)
}

// UploadedMsg carries the result of an upload.
type UploadedMsg struct {
	seq      uint64
	Path     string
	Response *api.UploadResponse
	Err      error
}

// Controller drives file selection to upload to document registration.
type Controller struct {
	ctx        context.Context
	client     Client
	status     surface.StatusLine
	registry   Registry
	extensions []string
	success    *template.Template
	log        *slog.Logger

	// Sequence number of the most recently initiated upload.
	seq uint64
}

// New instantiates and returns a new controller.
func New(ctx context.Context, client Client, s *surface.Surface, registry Registry, config configuration.UploadConfig) (*Controller, error) {
	success, err := template.New("upload_success").Funcs(sprig.TxtFuncMap()).Parse(config.SuccessTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing upload success template")
	}
	return &Controller{
		ctx:        ctx,
		client:     client,
		status:     s.Status,
		registry:   registry,
		extensions: config.FileExtensions,
		success:    success,
		log:        debug.GetLogger(),
	}, nil
}

// UploadFirst uploads the first of the selected paths. The others are ignored.
func (c *Controller) UploadFirst(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return nil
	}
	if len(paths) > 1 {
		c.log.Warn("ignoring extra selected files", "count", len(paths)-1)
	}
	return c.Upload(paths[0])
}

// Upload a single file.
func (c *Controller) Upload(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	c.seq++
	seq := c.seq
	if !file.HasValidExtension(path, c.extensions) {
		c.log.Error("upload exception", "path", path, "error", "unsupported file extension")
		c.setStatus(FailedText)
		return nil
	}

	c.setStatus(UploadingText)
	client, ctx := c.client, c.ctx
	return func() tea.Msg {
		f, err := file.Read(path)
		if err != nil {
			return UploadedMsg{seq: seq, Path: path, Err: err}
		}
		response, err := client.Upload(ctx, f.Name, f.Content)
		return UploadedMsg{seq: seq, Path: path, Response: response, Err: err}
	}
}

// Update folds upload results into the status line and the registry.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	uploaded, ok := msg.(UploadedMsg)
	if !ok {
		return nil
	}

	err := uploaded.Err
	if err == nil {
		err = validate(uploaded.Response)
	}

	var statusErr *api.StatusError
	switch {
	case err == nil:
		filename := uploaded.Response.Filename
		c.log.Info("adding source", "filename", filename)
		c.setStatusFor(uploaded.seq, c.successText(uploaded.Response))
		if c.registry != nil {
			c.registry.Add(filename)
		}
	case errors.As(err, &statusErr) && statusErr.Parsed:
		c.log.Error("upload error", "path", uploaded.Path, "code", statusErr.Code, "body", string(statusErr.Body))
		c.setStatusFor(uploaded.seq, ErrorText)
	case errors.Is(err, errEmptyFilename) || uploaded.Response != nil:
		c.log.Error("upload error", "path", uploaded.Path, "response", uploaded.Response, "error", err)
		c.setStatusFor(uploaded.seq, ErrorText)
	default:
		c.log.Error("upload exception", "path", uploaded.Path, "error", err)
		c.setStatusFor(uploaded.seq, FailedText)
	}
	return nil
}

// validate rejects 2xx bodies that still report a failure.
func validate(response *api.UploadResponse) error {
	if response == nil || response.Filename == "" {
		return errEmptyFilename
	}
	if response.Error != "" || response.Status == "Error" {
		return errors.Errorf("server could not process %s: %s", response.Filename, response.Error)
	}
	return nil
}

func (c *Controller) successText(response *api.UploadResponse) string {
	var buf bytes.Buffer
	if err := c.success.Execute(&buf, response); err != nil {
		c.log.Error("executing upload success template", "error", err)
		return "Uploaded: " + response.Filename
	}
	return buf.String()
}

// setStatusFor only updates the status if seq is the most recently initiated upload.
func (c *Controller) setStatusFor(seq uint64, text string) {
	if seq != c.seq {
		return
	}
	c.setStatus(text)
}

func (c *Controller) setStatus(text string) {
	if c.status != nil {
		c.status.SetText(text)
	}
}
