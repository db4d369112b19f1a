package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/malonaz/notebook/cli/tui/styles"
)

// mainWidth is the width left of the sidebar.
func (m *Model) mainWidth() int {
	return max(m.width-styles.SidebarWidth, 1)
}

// recalculateLayout adjusts viewport and input dimensions based on current state.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	mainWidth := m.mainWidth()
	inputWidth := mainWidth - styles.InputStyle.GetHorizontalFrameSize() - lipgloss.Width(m.chatInput.Prompt) - 1
	m.chatInput.Width = max(inputWidth, 1)
	m.credentialInput.Width = max(inputWidth, 1)

	viewportHeight := m.height - lipgloss.Height(m.renderTitle()) - lipgloss.Height(m.renderBottom()) - lipgloss.Height(m.renderHelp())
	if viewportHeight < styles.MinViewportHeight {
		viewportHeight = styles.MinViewportHeight
	}

	rendererWidth := mainWidth - styles.MessageHorizontalFrameSize() - styles.MessageMargin
	if err := m.renderer.SetWidth(rendererWidth); err != nil {
		log.Error("resizing markdown renderer", "error", err)
	}

	if !m.ready {
		m.viewport = viewport.New(mainWidth, viewportHeight)
		m.ready = true
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return
	}
	m.viewport.Width = mainWidth
	m.viewport.Height = viewportHeight
	m.viewport.SetContent(m.renderMessages())
}
