package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"github.com/malonaz/notebook/internal/chat"
	"github.com/malonaz/notebook/internal/documents"
	"github.com/malonaz/notebook/internal/upload"
)

type KeyMapSession struct {
	CycleFocus key.Binding
	Upload     key.Binding
	Copy       key.Binding
	Quit       key.Binding
}

type KeyMapSidebar struct {
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
}

type InputKeyMap struct {
	Send                 key.Binding
	PreviousHistoryEntry key.Binding
	NextHistoryEntry     key.Binding
}

type KeyMapConfirm struct {
	Yes key.Binding
	No  key.Binding
}

var keyMapSession = KeyMapSession{
	CycleFocus: key.NewBinding(
		key.WithKeys("tab"),
	),
	Upload: key.NewBinding(
		key.WithKeys("ctrl+u"),
	),
	Copy: key.NewBinding(
		key.WithKeys("alt+w"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

var keyMapSidebar = KeyMapSidebar{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
	),
}

var inputKeyMap = InputKeyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
	),
	PreviousHistoryEntry: key.NewBinding(
		key.WithKeys("alt+p"),
	),
	NextHistoryEntry: key.NewBinding(
		key.WithKeys("alt+n"),
	),
}

var keyMapConfirm = KeyMapConfirm{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
	),
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message
	outAlert, alertCmd := m.alertClipboardWrite.Update(msg)
	m.alertClipboardWrite = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	switch msg.(type) {
	case spinner.TickMsg, cursor.BlinkMsg, tea.MouseMsg:
	default:
		log.Debug("update", "msg_type", fmt.Sprintf("%T", msg))
	}

	switch msg := msg.(type) {
	case documents.HydratedMsg, documents.DeletedMsg, upload.UploadedMsg, chat.RespondedMsg:
		cmds = append(cmds, m.app.Update(msg))
		m.refresh()
		return m, tea.Batch(cmds...)

	case confirmRequestMsg:
		m.confirms = append(m.confirms, msg)
		m.recalculateLayout()
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()
		m.filepicker, _ = m.filepicker.Update(msg)
		cmds = append(cmds, m.app.Init())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.chatBusy() || m.status.Text() == upload.UploadingText {
			m.refresh()
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if key.Matches(msg, keyMapSession.Quit) {
			m.quit()
			return m, tea.Quit
		}
		if m.awaitingConfirm() {
			switch {
			case key.Matches(msg, keyMapConfirm.Yes):
				m.answerConfirm(true)
			case key.Matches(msg, keyMapConfirm.No):
				m.answerConfirm(false)
			}
			m.recalculateLayout()
			return m, tea.Batch(cmds...)
		}
		if m.picking {
			if msg.String() == "esc" {
				m.picking = false
				m.recalculateLayout()
				return m, tea.Batch(cmds...)
			}
			break
		}

		switch {
		case key.Matches(msg, keyMapSession.CycleFocus):
			cmds = append(cmds, m.cycleFocus())
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keyMapSession.Upload):
			m.picking = true
			m.recalculateLayout()
			cmds = append(cmds, m.filepicker.Init())
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keyMapSession.Copy):
			if answer, ok := m.lastAnswer(); ok && m.clipboardEnabled {
				clipboard.Write(clipboard.FmtText, []byte(answer))
				cmds = append(cmds, m.alertClipboardWrite.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"))
			}
			return m, tea.Batch(cmds...)
		}

		switch m.focusedComponent {
		case FocusSidebar:
			km := keyMapSidebar
			switch {
			case key.Matches(msg, km.Up):
				if m.selected > 0 {
					m.selected--
				}
				m.refresh()
			case key.Matches(msg, km.Down):
				if m.selected < len(m.documents.Entries())-1 {
					m.selected++
				}
				m.refresh()
			case key.Matches(msg, km.Delete):
				if entry := m.selectedEntry(); entry != nil && entry.Deletable {
					cmds = append(cmds, m.app.Delete(entry))
				}
			default:
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)

		case FocusChatInput:
			km := inputKeyMap
			switch {
			case key.Matches(msg, km.Send):
				m.historyNavigating = false
				m.history.Rewind()
				cmds = append(cmds, m.app.Send())
				m.refresh()
				return m, tea.Batch(cmds...)
			case key.Matches(msg, km.PreviousHistoryEntry):
				if entry, ok := m.history.Older(m.chatInput.Value()); ok {
					m.chatInput.SetValue(entry)
					m.chatInput.CursorEnd()
					m.historyNavigating = true
				}
				return m, tea.Batch(cmds...)
			case key.Matches(msg, km.NextHistoryEntry):
				if entry, ok := m.history.Newer(); ok {
					m.chatInput.SetValue(entry)
					m.chatInput.CursorEnd()
					m.historyNavigating = true
				}
				return m, tea.Batch(cmds...)
			}
			if m.historyNavigating {
				switch msg.Type {
				case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
					m.history.Rewind()
					m.historyNavigating = false
				}
			}
			var cmd tea.Cmd
			m.chatInput, cmd = m.chatInput.Update(msg)
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)

		case FocusCredential:
			var cmd tea.Cmd
			m.credentialInput, cmd = m.credentialInput.Update(msg)
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)
		}
	}

	if m.picking {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		cmds = append(cmds, cmd)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.picking = false
			m.recalculateLayout()
			cmds = append(cmds, m.app.SelectFiles(path))
			m.refresh()
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	m.credentialInput, cmd = m.credentialInput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// cycleFocus moves the focus to the next component.
func (m *Model) cycleFocus() tea.Cmd {
	m.chatInput.Blur()
	m.credentialInput.Blur()
	m.focusedComponent = (m.focusedComponent + 1) % 3
	m.refresh()
	switch m.focusedComponent {
	case FocusChatInput:
		return m.chatInput.Focus()
	case FocusCredential:
		return m.credentialInput.Focus()
	}
	return nil
}

// refresh re-renders the transcript, following the controllers' scroll requests.
func (m *Model) refresh() {
	if entries := len(m.documents.Entries()); m.selected >= entries {
		m.selected = max(entries-1, 0)
	}
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if m.transcript.TakeScroll() {
		m.viewport.GotoBottom()
	}
}

// chatBusy reports whether a placeholder is on screen.
func (m *Model) chatBusy() bool {
	return m.app.Chat.Busy()
}

// quit releases every command blocked on a confirmation.
func (m *Model) quit() {
	m.quitting = true
	for m.awaitingConfirm() {
		m.answerConfirm(false)
	}
}

func (m *Model) filter(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.QuitMsg); ok {
		m.quit()
	}
	return msg
}

// Filter returns the filter function for the tea.Program.
func (m *Model) Filter() func(tea.Model, tea.Msg) tea.Msg {
	return m.filter
}
