// Package surface defines the rendering regions the controllers mutate.
// A Surface is assembled once by the frontend and handed to every controller;
// each controller only ever touches its own region.
package surface

import (
	"context"

	"github.com/malonaz/notebook/internal/types"
)

// DocumentList is the sidebar region.
type DocumentList interface {
	Clear()
	Append(entry *types.Entry)
	// Remove the given entry, matched by identity. Returns false if it was not present.
	Remove(entry *types.Entry) bool
	Entries() []*types.Entry
}

// Transcript is the message region.
type Transcript interface {
	Append(message *types.Message)
	// Remove the given message, matched by identity. Returns false if it was not present.
	Remove(message *types.Message) bool
	Contains(message *types.Message) bool
	ScrollToBottom()
}

// StatusLine is the upload status region.
type StatusLine interface {
	SetText(text string)
}

// TextInput is a single line input field.
type TextInput interface {
	Value() string
	SetValue(value string)
}

// Confirmer asks the user a yes/no question, blocking until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Surface holds every region. A nil region disables the feature bound to it.
type Surface struct {
	Documents  DocumentList
	Transcript Transcript
	Status     StatusLine
	ChatInput  TextInput
	Credential TextInput
	Confirmer  Confirmer
}
