package chat

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/malonaz/notebook/internal/api"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/debug"
	"github.com/malonaz/notebook/internal/history"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
)

// ErrorText replaces the placeholder when a query fails.
const ErrorText = "Error getting response."

// Client is the subset of the api client used by the controller.
type Client interface {
	Chat(ctx context.Context, request *api.ChatRequest) (*api.ChatResponse, error)
}

// RespondedMsg carries the resolution of a query.
type RespondedMsg struct {
	Pending *types.Message
	Answer  string
	Err     error
}

// Controller drives query submission to transcript append.
type Controller struct {
	ctx        context.Context
	client     Client
	transcript surface.Transcript
	input      surface.TextInput
	credential surface.TextInput
	history    *history.History
	log        *slog.Logger

	allowConcurrent bool
	inflight        int
}

// New instantiates and returns a new controller. History may be nil.
func New(ctx context.Context, client Client, s *surface.Surface, h *history.History, config configuration.ChatConfig) *Controller {
	return &Controller{
		ctx:             ctx,
		client:          client,
		transcript:      s.Transcript,
		input:           s.ChatInput,
		credential:      s.Credential,
		history:         h,
		log:             debug.GetLogger(),
		allowConcurrent: config.AllowConcurrentQueries,
	}
}

// Busy returns true while a query is awaiting its response.
func (c *Controller) Busy() bool {
	return c.inflight > 0
}

// Submit sends the content of the chat input.
// Blank input is ignored. Unless concurrent queries are allowed, so is any
// submission made while a query is in flight; the input is then left untouched.
func (c *Controller) Submit() tea.Cmd {
	if c.input == nil || c.transcript == nil {
		return nil
	}
	query := c.input.Value()
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if c.Busy() && !c.allowConcurrent {
		c.log.Warn("query rejected while another is in flight")
		return nil
	}

	c.appendMessage(types.NewUserMessage(query))
	c.input.SetValue("")
	pending := types.NewPendingMessage()
	c.appendMessage(pending)

	request := &api.ChatRequest{Query: query}
	if c.credential != nil {
		request.APIKey = c.credential.Value()
	}
	if c.history != nil {
		c.history.Record(query)
	}
	c.inflight++
	c.log.Info("sending query", "inflight", c.inflight, "with_api_key", request.APIKey != "")

	client, ctx := c.client, c.ctx
	return func() tea.Msg {
		response, err := client.Chat(ctx, request)
		if err != nil {
			return RespondedMsg{Pending: pending, Err: err}
		}
		return RespondedMsg{Pending: pending, Answer: response.Answer}
	}
}

// Update folds query resolutions into the transcript.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	responded, ok := msg.(RespondedMsg)
	if !ok {
		return nil
	}
	c.inflight--

	removed := c.transcript.Remove(responded.Pending)
	if responded.Err != nil {
		c.log.Error("chat request failed", "error", responded.Err, "placeholder_removed", removed)
		c.appendMessage(types.NewAIMessage(ErrorText))
		return nil
	}
	c.appendMessage(types.NewAIMessage(responded.Answer))
	return nil
}

func (c *Controller) appendMessage(message *types.Message) {
	c.transcript.Append(message)
	c.transcript.ScrollToBottom()
}
