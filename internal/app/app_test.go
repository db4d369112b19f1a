package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/notebook/internal/api"
	"github.com/malonaz/notebook/internal/apitest"
	"github.com/malonaz/notebook/internal/chat"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
)

type fixture struct {
	server  *apitest.Server
	app     *App
	surface *surface.Surface
}

func newFixture(t *testing.T, admin bool, documents ...string) *fixture {
	server := apitest.New(t, documents...)
	config := configuration.Default()
	config.Admin = admin
	s := surface.NewMemory()
	app, err := New(context.Background(), api.NewClient(server.URL, 0), s, config, nil)
	require.NoError(t, err)
	return &fixture{server: server, app: app, surface: s}
}

func (f *fixture) filenames() []string {
	return f.surface.Documents.(*surface.MemoryList).Filenames()
}

func (f *fixture) messages() []*types.Message {
	return f.surface.Transcript.(*surface.MemoryTranscript).Messages()
}

func (f *fixture) status() string {
	return f.surface.Status.(*surface.MemoryStatus).Text()
}

func (f *fixture) confirmer() *surface.StaticConfirmer {
	return f.surface.Confirmer.(*surface.StaticConfirmer)
}

func writeFile(t *testing.T, name string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
	return path
}

func TestInit_HydratesExactlyOnce(t *testing.T) {
	f := newFixture(t, false, "a.txt", "b.pdf")

	f.app.Drive(f.app.Init())
	require.Nil(t, f.app.Init())
	require.Equal(t, []string{"a.txt", "b.pdf"}, f.filenames())
	require.Equal(t, 1, f.server.Count(apitest.ListDocuments))
}

func TestNew_PrefillsCredential(t *testing.T) {
	server := apitest.New(t)
	config := configuration.Default()
	config.APIKey = "from-config"
	s := surface.NewMemory()
	_, err := New(context.Background(), api.NewClient(server.URL, 0), s, config, nil)
	require.NoError(t, err)
	require.Equal(t, "from-config", s.Credential.Value())
}

func TestScenario_UploadAddsEntry(t *testing.T) {
	f := newFixture(t, false)
	f.app.Drive(f.app.Init())

	f.app.Drive(f.app.SelectFiles(writeFile(t, "notes.pdf")))
	require.Contains(t, f.status(), "notes.pdf")
	require.Equal(t, []string{"notes.pdf"}, f.filenames())
}

func TestScenario_ChatAnswer(t *testing.T) {
	f := newFixture(t, false)
	f.server.SetAnswer(func(string) string { return "X is Y." })
	f.surface.ChatInput.SetValue("What is X?")

	f.app.Drive(f.app.Send())
	messages := f.messages()
	require.Len(t, messages, 2)
	require.Equal(t, types.SenderUser, messages[0].Sender)
	require.Equal(t, "What is X?", messages[0].Text())
	require.Equal(t, types.SenderAI, messages[1].Sender)
	require.Equal(t, "X is Y.", messages[1].Text())
	for _, message := range messages {
		require.False(t, message.Pending)
		require.NotEqual(t, types.PendingText, message.Text())
	}
}

func TestScenario_ChatNetworkError(t *testing.T) {
	f := newFixture(t, false)
	f.server.Drop(apitest.Chat)
	f.surface.ChatInput.SetValue("What is X?")

	f.app.Drive(f.app.Send())
	messages := f.messages()
	last := messages[len(messages)-1]
	require.Equal(t, types.SenderAI, last.Sender)
	require.Equal(t, chat.ErrorText, last.Text())
	for _, message := range messages {
		require.False(t, message.Pending)
	}
}

func TestScenario_AdminDeletes(t *testing.T) {
	f := newFixture(t, true, "a.txt", "b.txt")
	f.app.Drive(f.app.Init())
	f.confirmer().Answer = true

	f.app.Drive(f.app.Delete(f.app.Documents.Entries()[0]))
	require.Equal(t, []string{"Delete a.txt?"}, f.confirmer().Prompts())
	require.Equal(t, []string{"b.txt"}, f.filenames())
}

func TestScenario_NonAdminHasNoDeleteAffordance(t *testing.T) {
	f := newFixture(t, false, "a.txt", "b.txt")
	f.app.Drive(f.app.Init())
	f.app.Drive(f.app.SelectFiles(writeFile(t, "c.txt")))

	for _, entry := range f.app.Documents.Entries() {
		require.False(t, entry.Deletable)
		require.Nil(t, f.app.Delete(entry))
	}
	require.Zero(t, f.server.Count(apitest.DeleteDocument))
}

func TestRoundTrip_HydrationMatchesServer(t *testing.T) {
	f := newFixture(t, true, "seed.txt")
	f.app.Drive(f.app.Init())
	f.confirmer().Answer = true

	f.app.Drive(f.app.SelectFiles(writeFile(t, "a.pdf")))
	f.app.Drive(f.app.SelectFiles(writeFile(t, "b.pdf")))
	f.app.Drive(f.app.Delete(f.app.Documents.Entries()[0]))
	f.app.Drive(f.app.SelectFiles(writeFile(t, "a.pdf")))

	before := f.filenames()
	require.ElementsMatch(t, f.server.Documents(), before)

	f.app.Drive(f.app.Documents.Hydrate())
	require.Equal(t, f.server.Documents(), f.filenames())
	f.app.Drive(f.app.Documents.Hydrate())
	require.Equal(t, f.server.Documents(), f.filenames())
}

func TestDrive_Batch(t *testing.T) {
	f := newFixture(t, false, "a.txt")
	f.surface.ChatInput.SetValue("q")

	f.app.Drive(tea.Batch(f.app.Init(), f.app.Send()))
	require.Equal(t, []string{"a.txt"}, f.filenames())
	require.Len(t, f.messages(), 2)
}

func TestUpdate_IgnoresForeignMessages(t *testing.T) {
	f := newFixture(t, false)
	require.Nil(t, f.app.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Nil(t, f.app.Update(nil))
}
