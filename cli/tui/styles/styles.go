package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	// Sidebar
	SidebarWidth = 30

	// Inputs
	InputPaddingLeft = 1

	// Viewport
	MinViewportHeight = 1

	// Messages
	MessageMargin = 6

	// Confirmation dialog
	ConfirmPaddingHorizontal = 2
	ConfirmPaddingVertical   = 1

	// Truncation
	TruncateSuffix       = "..."
	TruncateSuffixLength = 3
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#06B6D4") // Cyan
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	SuccessColor   = lipgloss.Color("#10B981") // Green
	ErrorColor     = lipgloss.Color("#EF4444") // Red
	MutedColor     = lipgloss.Color("#6B7280") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light gray
	DimTextColor   = lipgloss.Color("#9CA3AF") // Dim gray
	FileColor      = lipgloss.Color("#F472B6") // Pink
	BorderColor    = lipgloss.Color("#4B5563")
)

// Title bar
var (
	TitleStyle = lipgloss.NewStyle().
		Background(PrimaryColor).
		Foreground(TextColor).
		Bold(true)
)

// Sidebar
var (
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	SidebarFocusedStyle = lipgloss.NewStyle().
				Inherit(SidebarStyle).
				BorderForeground(PrimaryColor)

	SidebarHeaderStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	DocumentStyle = lipgloss.NewStyle().
			Foreground(FileColor)

	DocumentSelectedStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor)

	DeleteAffordanceStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)
)

// Messages.
var (
	messageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	UserMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(PrimaryColor).
				MarginLeft(MessageMargin)

	AIMessageStyle = lipgloss.NewStyle().
			Inherit(messageStyle).
			BorderForeground(SecondaryColor).
			MarginRight(MessageMargin)

	PendingStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Italic(true).
			PaddingLeft(2)
)

// Status line
var (
	StatusStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		PaddingLeft(1)
)

// Input area
var (
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			PaddingLeft(InputPaddingLeft)

	InputFocusedStyle = lipgloss.NewStyle().
				Inherit(InputStyle).
				BorderForeground(PrimaryColor)
)

// Spinner
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)
)

// Help text
var (
	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)
)

// Confirmation dialog
var (
	ConfirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(ConfirmPaddingVertical, ConfirmPaddingHorizontal)

	ConfirmTitleStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)
)

// Viewport
var (
	ViewportStyle = lipgloss.NewStyle().Margin(0).Padding(0)
)

// MessageHorizontalFrameSize returns the horizontal frame size of AI messages.
func MessageHorizontalFrameSize() int {
	return AIMessageStyle.GetHorizontalFrameSize()
}

// Truncate truncates a string to the specified length with a suffix.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen || maxLen <= TruncateSuffixLength {
		return s
	}
	return string(runes[:maxLen-TruncateSuffixLength]) + TruncateSuffix
}
