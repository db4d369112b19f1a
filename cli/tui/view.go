package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/malonaz/notebook/cli/tui/styles"
	"github.com/malonaz/notebook/internal/types"
	"github.com/malonaz/notebook/internal/upload"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	center := styles.ViewportStyle.Render(m.viewport.View())
	if m.picking {
		center = lipgloss.NewStyle().Height(m.viewport.Height).MaxHeight(m.viewport.Height).Render(m.filepicker.View())
	}
	main := lipgloss.JoinVertical(lipgloss.Left, m.renderTitle(), center, m.renderBottom(), m.renderHelp())
	view := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	return m.alertClipboardWrite.Render(view)
}

func (m *Model) renderTitle() string {
	role := "user"
	if m.config.Admin {
		role = "admin"
	}
	title := fmt.Sprintf(" 📚 notebook │ 🌐 %s │ 📄 %d │ 👤 %s ", m.config.ServerURL, len(m.documents.Entries()), role)
	return styles.TitleStyle.Width(m.mainWidth()).Render(title)
}

func (m *Model) renderSidebar() string {
	style := styles.SidebarStyle
	if m.focusedComponent == FocusSidebar {
		style = styles.SidebarFocusedStyle
	}
	innerWidth := styles.SidebarWidth - style.GetHorizontalFrameSize()

	var b strings.Builder
	b.WriteString(styles.SidebarHeaderStyle.Render("Documents"))
	for i, entry := range m.documents.Entries() {
		b.WriteString("\n")
		b.WriteString(m.renderEntry(entry, i == m.selected, innerWidth))
	}
	return style.
		Width(styles.SidebarWidth - style.GetHorizontalBorderSize()).
		Height(max(m.height-style.GetVerticalFrameSize(), 1)).
		Render(b.String())
}

func (m *Model) renderEntry(entry *types.Entry, selected bool, width int) string {
	affordance := ""
	if entry.Deletable {
		affordance = " " + styles.DeleteAffordanceStyle.Render("✕")
	}
	name := styles.Truncate(entry.Filename, width-lipgloss.Width(affordance))
	if selected && m.focusedComponent == FocusSidebar {
		return styles.DocumentSelectedStyle.Render(name) + affordance
	}
	return styles.DocumentStyle.Render(name) + affordance
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	for i, message := range m.transcript.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(message))
	}
	return b.String()
}

func (m *Model) renderMessage(message *types.Message) string {
	if message.Pending {
		return styles.PendingStyle.Render(m.spinner.View() + " " + message.Text())
	}

	style := styles.AIMessageStyle
	content := message.Text()
	if message.Sender == types.SenderUser {
		style = styles.UserMessageStyle
	}
	width := m.viewport.Width - style.GetHorizontalMargins() - style.GetHorizontalBorderSize()
	style = style.Width(max(width, 1))
	if message.Direction == types.RightToLeft {
		return style.Align(lipgloss.Right).Render(content)
	}
	if message.Sender == types.SenderAI {
		content = m.renderer.Render(content)
	}
	return style.Render(content)
}

func (m *Model) renderBottom() string {
	if m.awaitingConfirm() {
		prompt := styles.ConfirmTitleStyle.Render(m.confirms[0].prompt)
		return styles.ConfirmBoxStyle.Render(prompt + "\n" + styles.HelpStyle.Render("Press Y to confirm, N or Esc to cancel"))
	}

	status := m.status.Text()
	if status == upload.UploadingText {
		status = m.spinner.View() + " " + status
	}

	chatStyle, credentialStyle := styles.InputStyle, styles.InputStyle
	switch m.focusedComponent {
	case FocusChatInput:
		chatStyle = styles.InputFocusedStyle
	case FocusCredential:
		credentialStyle = styles.InputFocusedStyle
	}
	width := m.mainWidth() - styles.InputStyle.GetHorizontalBorderSize()
	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.StatusStyle.Render(status),
		chatStyle.Width(width).Render(m.chatInput.View()),
		credentialStyle.Width(width).Render(m.credentialInput.View()),
	)
}

func (m *Model) renderHelp() string {
	var help string
	switch {
	case m.awaitingConfirm():
		help = "y confirm • n cancel"
	case m.picking:
		help = "enter select • esc cancel"
	case m.focusedComponent == FocusSidebar:
		help = "↑/↓ move • d delete • tab focus • ctrl+u upload • ctrl+c quit"
	default:
		help = "enter send • alt+p/n history • alt+w copy answer • tab focus • ctrl+u upload • ctrl+c quit"
	}
	return styles.HelpStyle.Render(help)
}
