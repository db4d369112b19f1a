package surface

import (
	"context"
	"slices"
	"sync"

	"github.com/malonaz/notebook/internal/types"
)

// NewMemory returns a surface whose regions are held in memory.
// Confirmations are declined unless a different Confirmer is set.
func NewMemory() *Surface {
	return &Surface{
		Documents:  &MemoryList{},
		Transcript: &MemoryTranscript{},
		Status:     &MemoryStatus{},
		ChatInput:  &MemoryInput{},
		Credential: &MemoryInput{},
		Confirmer:  &StaticConfirmer{},
	}
}

// MemoryList is an in-memory DocumentList.
type MemoryList struct {
	entries []*types.Entry
}

// Clear implements DocumentList.
func (l *MemoryList) Clear() { l.entries = nil }

// Append implements DocumentList.
func (l *MemoryList) Append(entry *types.Entry) { l.entries = append(l.entries, entry) }

// Remove implements DocumentList.
func (l *MemoryList) Remove(entry *types.Entry) bool {
	index := slices.Index(l.entries, entry)
	if index < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, index, index+1)
	return true
}

// Entries implements DocumentList.
func (l *MemoryList) Entries() []*types.Entry { return slices.Clone(l.entries) }

// Filenames returns the visible filenames in order.
func (l *MemoryList) Filenames() []string {
	filenames := make([]string, len(l.entries))
	for i, entry := range l.entries {
		filenames[i] = entry.Filename
	}
	return filenames
}

// MemoryTranscript is an in-memory Transcript.
type MemoryTranscript struct {
	messages        []*types.Message
	scrollRequested bool
}

// Append implements Transcript.
func (t *MemoryTranscript) Append(message *types.Message) { t.messages = append(t.messages, message) }

// Remove implements Transcript.
func (t *MemoryTranscript) Remove(message *types.Message) bool {
	index := slices.Index(t.messages, message)
	if index < 0 {
		return false
	}
	t.messages = slices.Delete(t.messages, index, index+1)
	return true
}

// Contains implements Transcript.
func (t *MemoryTranscript) Contains(message *types.Message) bool {
	return slices.Contains(t.messages, message)
}

// ScrollToBottom implements Transcript.
func (t *MemoryTranscript) ScrollToBottom() { t.scrollRequested = true }

// TakeScroll reports whether a scroll was requested since the last call.
func (t *MemoryTranscript) TakeScroll() bool {
	requested := t.scrollRequested
	t.scrollRequested = false
	return requested
}

// Messages returns the messages in conversation order.
func (t *MemoryTranscript) Messages() []*types.Message { return slices.Clone(t.messages) }

// MemoryStatus is an in-memory StatusLine.
type MemoryStatus struct {
	text string
}

// SetText implements StatusLine.
func (s *MemoryStatus) SetText(text string) { s.text = text }

// Text returns the current status.
func (s *MemoryStatus) Text() string { return s.text }

// MemoryInput is an in-memory TextInput.
type MemoryInput struct {
	value string
}

// Value implements TextInput.
func (i *MemoryInput) Value() string { return i.value }

// SetValue implements TextInput.
func (i *MemoryInput) SetValue(value string) { i.value = value }

// StaticConfirmer answers every confirmation the same way and records the prompts.
type StaticConfirmer struct {
	Answer bool

	mu      sync.Mutex
	prompts []string
}

// Confirm implements Confirmer.
func (c *StaticConfirmer) Confirm(ctx context.Context, prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return c.Answer
}

// Prompts returns every prompt asked so far.
func (c *StaticConfirmer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.prompts)
}
