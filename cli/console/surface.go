package console

import (
	"context"

	"github.com/malonaz/notebook/internal/cli"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
)

// transcript prints messages as they are appended.
type transcript struct {
	surface.MemoryTranscript
}

// Append implements surface.Transcript.
func (t *transcript) Append(message *types.Message) {
	t.MemoryTranscript.Append(message)
	switch {
	case message.Pending:
		cli.Pending(message.Text())
	case message.Sender == types.SenderUser:
		cli.UserMessage(message.Text())
	default:
		cli.AIMessage(message.Text())
		cli.Separator()
	}
}

// status prints every status update.
type status struct {
	surface.MemoryStatus
}

// SetText implements surface.StatusLine.
func (s *status) SetText(text string) {
	s.MemoryStatus.SetText(text)
	cli.Status(text)
}

// confirmer asks on the terminal, or answers yes when assumeYes is set.
type confirmer struct {
	assumeYes bool
}

// Confirm implements surface.Confirmer.
func (c *confirmer) Confirm(ctx context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}
	return cli.QueryUser(prompt)
}

// newSurface assembles the console regions.
func newSurface(assumeYes bool) *surface.Surface {
	return &surface.Surface{
		Documents:  &surface.MemoryList{},
		Transcript: &transcript{},
		Status:     &status{},
		ChatInput:  &surface.MemoryInput{},
		Credential: &surface.MemoryInput{},
		Confirmer:  &confirmer{assumeYes: assumeYes},
	}
}

// printDocuments prints the sidebar.
func printDocuments(entries []*types.Entry) {
	cli.Title("%d document(s)", len(entries))
	for _, entry := range entries {
		if entry.Deletable {
			cli.Document("%s  [rm]", entry.Filename)
			continue
		}
		cli.Document("%s", entry.Filename)
	}
}
