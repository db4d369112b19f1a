package app

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/malonaz/notebook/internal/chat"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/debug"
	"github.com/malonaz/notebook/internal/documents"
	"github.com/malonaz/notebook/internal/history"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
	"github.com/malonaz/notebook/internal/upload"
)

// Client is the notebook server api.
type Client interface {
	documents.Client
	upload.Client
	chat.Client
}

// App wires the entry points of a frontend to the controllers.
type App struct {
	Documents *documents.Store
	Upload    *upload.Controller
	Chat      *chat.Controller

	surface *surface.Surface
	once    sync.Once
	log     *slog.Logger
}

// New instantiates and returns a new app. History may be nil.
func New(ctx context.Context, client Client, s *surface.Surface, config *configuration.Config, h *history.History) (*App, error) {
	store := documents.New(ctx, client, s, documents.RenderContext{Admin: config.Admin})
	uploadController, err := upload.New(ctx, client, s, store, config.Upload)
	if err != nil {
		return nil, errors.Wrap(err, "creating upload controller")
	}
	if s.Credential != nil && s.Credential.Value() == "" {
		s.Credential.SetValue(config.APIKey)
	}
	return &App{
		Documents: store,
		Upload:    uploadController,
		Chat:      chat.New(ctx, client, s, h, config.Chat),
		surface:   s,
		log:       debug.GetLogger(),
	}, nil
}

// Init runs once the surface is ready. Later calls do nothing.
func (a *App) Init() tea.Cmd {
	var cmd tea.Cmd
	a.once.Do(func() {
		a.log.Info("initializing app")
		cmd = a.Documents.Hydrate()
	})
	return cmd
}

// Send is bound to the send button and the Enter key of the chat input.
func (a *App) Send() tea.Cmd {
	return a.Chat.Submit()
}

// SelectFiles is bound to the file selection control.
func (a *App) SelectFiles(paths ...string) tea.Cmd {
	return a.Upload.UploadFirst(paths)
}

// Delete is bound to the delete affordance of a sidebar entry.
func (a *App) Delete(entry *types.Entry) tea.Cmd {
	return a.Documents.Delete(entry)
}

// Update routes a round trip result to the controller that owns it.
func (a *App) Update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case documents.HydratedMsg, documents.DeletedMsg:
		return a.Documents.Update(msg)
	case upload.UploadedMsg:
		return a.Upload.Update(msg)
	case chat.RespondedMsg:
		return a.Chat.Update(msg)
	}
	return nil
}

// Drive runs a command and everything it leads to on the calling goroutine.
func (a *App) Drive(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range msg {
			a.Drive(cmd)
		}
	default:
		a.Drive(a.Update(msg))
	}
}
