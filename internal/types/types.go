package types

import (
	"strings"
)

const (
	// PendingText is the content of the placeholder shown while a query is in flight.
	PendingText = "Thinking..."
)

// Sender represents who authored a message.
type Sender int

const (
	// SenderUser represents a message typed by the user.
	SenderUser Sender = iota
	// SenderAI represents a message produced by the server.
	SenderAI
)

// String implements fmt.Stringer.
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAI:
		return "ai"
	default:
		return "unknown"
	}
}

// Message represents a displayable message in the transcript.
// Messages are compared by pointer identity, never by content.
type Message struct {
	// Sender indicates who authored this message.
	Sender Sender

	// Direction is detected once from the content when the message is created.
	Direction Direction

	// Pending is true only for the placeholder shown while awaiting a response.
	Pending bool

	text string
}

// Text returns the message content.
func (m *Message) Text() string {
	return strings.Trim(m.text, "\n")
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) *Message {
	return newMessage(SenderUser, text)
}

// NewAIMessage creates a new ai message.
func NewAIMessage(text string) *Message {
	return newMessage(SenderAI, text)
}

// NewPendingMessage creates a new placeholder message.
func NewPendingMessage() *Message {
	m := newMessage(SenderAI, PendingText)
	m.Pending = true
	return m
}

func newMessage(sender Sender, text string) *Message {
	return &Message{
		Sender:    sender,
		Direction: DetectDirection(text),
		text:      text,
	}
}

// Entry is a document as shown in the sidebar.
type Entry struct {
	// Filename is the server-assigned key of the document.
	Filename string
	// Deletable is decided once when the entry is built.
	Deletable bool
}
