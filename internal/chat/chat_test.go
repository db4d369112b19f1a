package chat

import (
	"context"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/notebook/internal/api"
	"github.com/malonaz/notebook/internal/apitest"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/history"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
)

type fixture struct {
	server     *apitest.Server
	controller *Controller
	transcript *surface.MemoryTranscript
	input      *surface.MemoryInput
	credential *surface.MemoryInput
	history    *history.History
}

func newFixture(t *testing.T, config configuration.ChatConfig) *fixture {
	server := apitest.New(t)
	s := surface.NewMemory()
	h := history.NewHistory("")
	return &fixture{
		server:     server,
		controller: New(context.Background(), api.NewClient(server.URL, 0), s, h, config),
		transcript: s.Transcript.(*surface.MemoryTranscript),
		input:      s.ChatInput.(*surface.MemoryInput),
		credential: s.Credential.(*surface.MemoryInput),
		history:    h,
	}
}

func (f *fixture) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		f.controller.Update(msg)
	}
}

type line struct {
	sender  types.Sender
	text    string
	pending bool
}

func (f *fixture) lines() []line {
	var lines []line
	for _, message := range f.transcript.Messages() {
		lines = append(lines, line{message.Sender, message.Text(), message.Pending})
	}
	return lines
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{})
	f.server.SetAnswer(func(query string) string { return "X is Y." })
	f.input.SetValue("What is X?")

	cmd := f.controller.Submit()
	require.NotNil(t, cmd)
	require.Empty(t, f.input.Value())
	require.True(t, f.controller.Busy())
	require.Equal(t, []line{
		{types.SenderUser, "What is X?", false},
		{types.SenderAI, types.PendingText, true},
	}, f.lines())
	require.True(t, f.transcript.TakeScroll())

	f.run(cmd)
	require.False(t, f.controller.Busy())
	require.Equal(t, []line{
		{types.SenderUser, "What is X?", false},
		{types.SenderAI, "X is Y.", false},
	}, f.lines())
	require.Equal(t, []string{"What is X?"}, f.history.Entries())

	requests := f.server.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "What is X?", requests[0].Query)
	require.False(t, requests[0].HasAPIKey)
}

func TestSubmit_SendsCredentialWhenPresent(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{})
	f.credential.SetValue("secret")
	f.input.SetValue("q")

	f.run(f.controller.Submit())
	requests := f.server.Requests()
	require.Len(t, requests, 1)
	require.True(t, requests[0].HasAPIKey)
	require.Equal(t, "secret", requests[0].APIKey)
	require.Equal(t, "secret", f.credential.Value())
}

func TestSubmit_BlankInputIsIgnored(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		f := newFixture(t, configuration.ChatConfig{})
		f.input.SetValue(input)

		require.Nil(t, f.controller.Submit())
		require.Empty(t, f.lines())
		require.Equal(t, input, f.input.Value())
		require.Zero(t, f.server.Count(apitest.Chat))
		require.Empty(t, f.history.Entries())
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{})
	f.server.Drop(apitest.Chat)
	f.input.SetValue("What is X?")

	f.run(f.controller.Submit())
	require.Equal(t, []line{
		{types.SenderUser, "What is X?", false},
		{types.SenderAI, ErrorText, false},
	}, f.lines())
	require.False(t, f.controller.Busy())
}

func TestSubmit_StatusAndMalformedFailures(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{})

	f.server.Fail(apitest.Chat, http.StatusInternalServerError, `{"detail":"boom"}`)
	f.input.SetValue("first")
	f.run(f.controller.Submit())

	f.server.Respond(apitest.Chat, http.StatusOK, `{"answer":`)
	f.input.SetValue("second")
	f.run(f.controller.Submit())

	require.Equal(t, []line{
		{types.SenderUser, "first", false},
		{types.SenderAI, ErrorText, false},
		{types.SenderUser, "second", false},
		{types.SenderAI, ErrorText, false},
	}, f.lines())
}

func TestSubmit_PlaceholderAlreadyGone(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{})
	f.server.Drop(apitest.Chat)
	f.input.SetValue("q")

	msg := f.controller.Submit()()
	responded := msg.(RespondedMsg)
	require.True(t, f.transcript.Remove(responded.Pending))

	f.controller.Update(msg)
	require.Equal(t, []line{
		{types.SenderUser, "q", false},
		{types.SenderAI, ErrorText, false},
	}, f.lines())
}

func TestSubmit_SingleSlotRejectsWhileInFlight(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{})
	f.input.SetValue("first")
	cmd := f.controller.Submit()

	f.input.SetValue("second")
	require.Nil(t, f.controller.Submit())
	require.Equal(t, "second", f.input.Value())
	require.Len(t, f.lines(), 2)
	require.Equal(t, []string{"first"}, f.history.Entries())

	f.run(cmd)
	f.run(f.controller.Submit())
	require.Equal(t, []line{
		{types.SenderUser, "first", false},
		{types.SenderAI, "answer to first", false},
		{types.SenderUser, "second", false},
		{types.SenderAI, "answer to second", false},
	}, f.lines())
	require.Equal(t, []string{"first", "second"}, f.history.Entries())
}

func TestSubmit_ConcurrentQueriesInterleave(t *testing.T) {
	f := newFixture(t, configuration.ChatConfig{AllowConcurrentQueries: true})
	f.input.SetValue("first")
	first := f.controller.Submit()
	f.input.SetValue("second")
	second := f.controller.Submit()
	require.NotNil(t, second)

	pending := 0
	for _, l := range f.lines() {
		if l.pending {
			pending++
		}
	}
	require.Equal(t, 2, pending)

	// Resolutions land in completion order, each removing its own placeholder.
	f.run(second)
	f.run(first)
	require.Equal(t, []line{
		{types.SenderUser, "first", false},
		{types.SenderUser, "second", false},
		{types.SenderAI, "answer to second", false},
		{types.SenderAI, "answer to first", false},
	}, f.lines())
	require.False(t, f.controller.Busy())
}

func TestSubmit_MissingRegionsDisableChat(t *testing.T) {
	server := apitest.New(t)
	controller := New(context.Background(), api.NewClient(server.URL, 0), &surface.Surface{}, nil, configuration.ChatConfig{})
	require.Nil(t, controller.Submit())
	require.Zero(t, server.Count(apitest.Chat))
}
