package tui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/malonaz/notebook/cli/tui/styles"
	"github.com/malonaz/notebook/internal/app"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/debug"
	"github.com/malonaz/notebook/internal/history"
	"github.com/malonaz/notebook/internal/markdown"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
)

const (
	FocusChatInput FocusedComponent = iota
	FocusCredential
	FocusSidebar
)

var log *slog.Logger

type FocusedComponent int

// Model represents the Bubble Tea model of the notebook.
type Model struct {
	// Core dependencies
	ctx    context.Context
	config *configuration.Config
	app    *app.App

	// Regions mutated by the controllers.
	documents  *surface.MemoryList
	transcript *surface.MemoryTranscript
	status     *surface.MemoryStatus

	// UI components
	chatInput       textinput.Model
	credentialInput textinput.Model
	viewport        viewport.Model
	spinner         spinner.Model
	filepicker      filepicker.Model
	renderer        *markdown.Renderer

	// UI state
	width            int
	height           int
	ready            bool
	quitting         bool
	picking          bool
	selected         int
	focusedComponent FocusedComponent

	// Alert notifications.
	alertClipboardWrite bubbleup.AlertModel
	clipboardEnabled    bool

	// Delete confirmations, oldest first.
	confirmer *confirmer
	confirms  []confirmRequestMsg

	// Program reference for sending messages from goroutines
	program   *tea.Program
	programMu sync.Mutex

	// Input history
	history           *history.History
	historyNavigating bool
}

// New creates a new notebook model.
func New(ctx context.Context, config *configuration.Config, client app.Client) (*Model, error) {
	log = debug.GetLogger()

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about your documents... (Enter to send, Alt+P/N for history)"
	chatInput.Prompt = "❯ "
	chatInput.CharLimit = 0
	chatInput.Focus()

	credentialInput := textinput.New()
	credentialInput.Placeholder = "API key (optional)"
	credentialInput.Prompt = "🔑 "
	credentialInput.EchoMode = textinput.EchoPassword
	credentialInput.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	fp := filepicker.New()
	fp.AllowedTypes = config.Upload.FileExtensions
	fp.CurrentDirectory = config.Upload.Directory

	alertClipboardWrite := bubbleup.NewAlertModel(25, true, 1)

	renderer, err := markdown.NewRenderer(80)
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctx:                 ctx,
		config:              config,
		documents:           &surface.MemoryList{},
		transcript:          &surface.MemoryTranscript{},
		status:              &surface.MemoryStatus{},
		chatInput:           chatInput,
		credentialInput:     credentialInput,
		spinner:             sp,
		filepicker:          fp,
		renderer:            renderer,
		alertClipboardWrite: *alertClipboardWrite,
		focusedComponent:    FocusChatInput,
		history:             history.NewHistory(config.Chat.HistoryFile),
	}

	m.confirmer = &confirmer{model: m}
	s := &surface.Surface{
		Documents:  m.documents,
		Transcript: m.transcript,
		Status:     m.status,
		ChatInput:  &m.chatInput,
		Credential: &m.credentialInput,
		Confirmer:  m.confirmer,
	}
	m.app, err = app.New(ctx, client, s, config, m.history)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EnableClipboard turns on Alt+W copying.
func (m *Model) EnableClipboard() {
	m.clipboardEnabled = true
}

// SetProgram sets the tea.Program reference for async message sending.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

// getProgram safely gets the program reference.
func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// Init initializes the model. The documents are fetched on the first window size message.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.alertClipboardWrite.Init(),
	)
}

// selectedEntry returns the sidebar entry under the cursor, or nil.
func (m *Model) selectedEntry() *types.Entry {
	entries := m.documents.Entries()
	if m.selected < 0 || m.selected >= len(entries) {
		return nil
	}
	return entries[m.selected]
}

// lastAnswer returns the text of the most recent resolved AI message.
func (m *Model) lastAnswer() (string, bool) {
	messages := m.transcript.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Sender == types.SenderAI && !messages[i].Pending {
			return messages[i].Text(), true
		}
	}
	return "", false
}
