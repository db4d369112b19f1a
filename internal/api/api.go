package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/malonaz/notebook/internal/debug"
)

const (
	uploadPath    = "/upload"
	documentsPath = "/documents"
	chatPath      = "/chat"

	requestIDHeader = "X-Request-Id"
	uploadFormField = "file"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
	Body []byte
	// Parsed is true when the body is valid json, i.e. the server itself
	// reported the failure rather than a proxy in front of it.
	Parsed bool
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, strings.TrimSpace(string(e.Body)))
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Filename    string `json:"filename"`
	Status      string `json:"status,omitempty"`
	TextPreview string `json:"text_preview,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ListDocumentsResponse is the body of a document listing.
type ListDocumentsResponse struct {
	Documents []string `json:"documents"`
}

// ChatRequest is the body of a chat query.
type ChatRequest struct {
	Query  string `json:"query"`
	APIKey string `json:"api_key,omitempty"`
}

// ChatResponse is the body of a chat answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Client talks to the notebook server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient instantiates and returns a new client.
// A zero timeout means requests are never abandoned.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        debug.GetLogger(),
	}
}

// Upload sends a single file as a multipart body.
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (*UploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(uploadFormField, filename)
	if err != nil {
		return nil, errors.Wrap(err, "creating form file")
	}
	if _, err := part.Write(content); err != nil {
		return nil, errors.Wrap(err, "writing form file")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart writer")
	}

	response := &UploadResponse{}
	if err := c.do(ctx, http.MethodPost, uploadPath, writer.FormDataContentType(), &body, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListDocuments returns the names of every document known to the server.
func (c *Client) ListDocuments(ctx context.Context) ([]string, error) {
	response := &ListDocumentsResponse{}
	if err := c.do(ctx, http.MethodGet, documentsPath, "", nil, response); err != nil {
		return nil, err
	}
	return response.Documents, nil
}

// DeleteDocument deletes a document. The response body is ignored.
func (c *Client) DeleteDocument(ctx context.Context, filename string) error {
	path := documentsPath + "/" + url.PathEscape(filename)
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// Chat sends a query and returns the answer.
func (c *Client) Chat(ctx context.Context, request *ChatRequest) (*ChatResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling chat request")
	}
	response := &ChatResponse{}
	if err := c.do(ctx, http.MethodPost, chatPath, "application/json", bytes.NewReader(payload), response); err != nil {
		return nil, err
	}
	return response, nil
}

// do performs a request and decodes a json response into out, if non-nil.
// Non-2xx responses are returned as a *StatusError carrying the raw body.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	requestID := uuid.New().String()
	request.Header.Set(requestIDHeader, requestID)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.Header.Set("Accept", "application/json")

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.log.Error("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	c.log.Debug("request completed", "method", method, "path", path, "request_id", requestID,
		"status", response.StatusCode, "duration", time.Since(start))

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &StatusError{Code: response.StatusCode, Body: responseBody, Parsed: json.Valid(responseBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return errors.Wrap(err, "unmarshaling response")
	}
	return nil
}
