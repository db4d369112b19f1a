package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	userMessageColor = color.New(color.FgWhite)               // White for user messages
	aiMessageColor   = color.New(color.FgCyan)                // Cyan for AI responses
	pendingColor     = color.New(color.FgHiYellow)            // Yellow for pending placeholders
	titleColor       = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor   = color.New(color.FgHiBlack)             // Dark grey for separators
	documentColor    = color.New(color.FgRed)                 // Red for documents
	statusColor      = color.New(color.FgYellow)              // Yellow for status updates
	promptColor      = color.New(color.FgHiBlue)              // Bright blue for prompts

	// Output is where everything is printed.
	Output io.Writer = color.Output
)

func width() int {
	if w := goterm.Width(); w > 0 {
		return w
	}
	return 80
}

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width())
	separatorColor.Fprintln(Output, separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	w := width()
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := max((w-len(title))/2, 0)
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", max(w-len(title)-len(separator1), 0))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Fprintln(Output, output)
}

// UserMessage printed to cli.
func UserMessage(text string) {
	userMessageColor.Fprintln(Output, "> "+text)
}

// AIMessage printed to cli.
func AIMessage(text string) {
	aiMessageColor.Fprintln(Output, text)
}

// Pending printed to cli.
func Pending(text string) {
	pendingColor.Fprintln(Output, text)
}

// Status printed to cli.
func Status(text string) {
	statusColor.Fprintln(Output, text)
}

// Document printed to cli.
func Document(text string, args ...any) {
	documentColor.Fprintf(Output, text+"\n", args...)
}

// PromptUser for input. Returns io.EOF when the user is done.
func PromptUser(historyFile string) (string, error) {
	config := &readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryFile:       historyFile,
		HistorySearchFold: true,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	line, err := rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}
