package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmRequestMsg asks the model to show the confirmation dialog.
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// confirmer shows a modal y/n dialog and blocks until it is answered.
// It runs inside commands, off the UI goroutine.
type confirmer struct {
	model *Model
	// send overrides the program when set.
	send func(tea.Msg)
}

// Confirm implements surface.Confirmer.
func (c *confirmer) Confirm(ctx context.Context, prompt string) bool {
	send := c.send
	if send == nil {
		p := c.model.getProgram()
		if p == nil {
			log.Warn("no program to confirm with", "prompt", prompt)
			return false
		}
		send = p.Send
	}
	reply := make(chan bool, 1)
	send(confirmRequestMsg{prompt: prompt, reply: reply})
	select {
	case answer := <-reply:
		return answer
	case <-ctx.Done():
		return false
	}
}

// answerConfirm resolves the oldest pending confirmation.
func (m *Model) answerConfirm(answer bool) {
	if len(m.confirms) == 0 {
		return
	}
	m.confirms[0].reply <- answer
	m.confirms = m.confirms[1:]
}

func (m *Model) awaitingConfirm() bool {
	return len(m.confirms) > 0
}
