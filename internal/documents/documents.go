package documents

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/scylladb/go-set/strset"

	"github.com/malonaz/notebook/internal/debug"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
)

// Client is the subset of the api client used by the store.
type Client interface {
	ListDocuments(ctx context.Context) ([]string, error)
	DeleteDocument(ctx context.Context, filename string) error
}

// RenderContext is decided once per session and used to build every entry.
type RenderContext struct {
	// Admin entries carry a delete affordance.
	Admin bool
}

// HydratedMsg carries the result of a document listing.
type HydratedMsg struct {
	generation uint64
	since      uint64
	Documents  []string
	Err        error
}

// DeletedMsg carries the result of a confirmed delete.
type DeletedMsg struct {
	Filename string
	Err      error
}

// event is a confirmed mutation of the list, keyed by filename.
type event struct {
	seq      uint64
	filename string
	removed  bool
}

// Store keeps the sidebar in sync with the documents known to the server.
//
// Every confirmed add and remove is appended to an event log. A listing result
// replaces the visible list and then replays the events recorded after that
// listing was dispatched, so a listing racing with an upload neither drops nor
// duplicates the uploaded document.
type Store struct {
	ctx       context.Context
	client    Client
	list      surface.DocumentList
	confirmer surface.Confirmer
	render    RenderContext
	log       *slog.Logger

	seq        uint64
	events     []event
	dispatched uint64
	applied    uint64
	inflight   int
}

// New instantiates and returns a new store.
func New(ctx context.Context, client Client, s *surface.Surface, render RenderContext) *Store {
	return &Store{
		ctx:       ctx,
		client:    client,
		list:      s.Documents,
		confirmer: s.Confirmer,
		render:    render,
		log:       debug.GetLogger(),
	}
}

// Hydrate fetches the full listing. The result replaces the visible list.
func (s *Store) Hydrate() tea.Cmd {
	if s.list == nil {
		return nil
	}
	s.dispatched++
	s.inflight++
	generation, since := s.dispatched, s.seq
	client, ctx := s.client, s.ctx
	s.log.Info("fetching documents", "generation", generation)
	return func() tea.Msg {
		documents, err := client.ListDocuments(ctx)
		return HydratedMsg{generation: generation, since: since, Documents: documents, Err: err}
	}
}

// Add appends a document confirmed by the server without refetching the listing.
// A document already visible is not duplicated.
func (s *Store) Add(filename string) {
	if s.list == nil {
		return
	}
	s.record(filename, false)
	if s.find(filename) != nil {
		s.log.Debug("document already listed", "filename", filename)
		return
	}
	s.log.Info("adding document", "filename", filename)
	s.list.Append(s.newEntry(filename))
}

// Delete asks for confirmation then deletes the entry's document.
// The entry is only removed once the server confirms.
func (s *Store) Delete(entry *types.Entry) tea.Cmd {
	if entry == nil || !entry.Deletable || s.confirmer == nil {
		return nil
	}
	filename := entry.Filename
	client, confirmer, ctx, log := s.client, s.confirmer, s.ctx, s.log
	return func() tea.Msg {
		if !confirmer.Confirm(ctx, fmt.Sprintf("Delete %s?", filename)) {
			log.Debug("delete declined", "filename", filename)
			return nil
		}
		return DeletedMsg{Filename: filename, Err: client.DeleteDocument(ctx, filename)}
	}
}

// Entries returns the visible entries.
func (s *Store) Entries() []*types.Entry {
	if s.list == nil {
		return nil
	}
	return s.list.Entries()
}

// Contains returns true if the document is visible.
func (s *Store) Contains(filename string) bool {
	return s.find(filename) != nil
}

// Update folds round trip results into the list.
func (s *Store) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case HydratedMsg:
		s.inflight--
		s.applyListing(msg)
		if s.inflight == 0 {
			s.events = nil
		}
	case DeletedMsg:
		if msg.Err != nil {
			s.log.Error("delete failed", "filename", msg.Filename, "error", msg.Err)
			return nil
		}
		s.record(msg.Filename, true)
		if entry := s.find(msg.Filename); entry != nil {
			s.list.Remove(entry)
		}
		s.log.Info("document deleted", "filename", msg.Filename)
	}
	return nil
}

func (s *Store) applyListing(msg HydratedMsg) {
	if msg.Err != nil {
		s.log.Error("failed to fetch documents", "error", msg.Err)
		return
	}
	if msg.generation < s.applied {
		s.log.Debug("dropping stale listing", "generation", msg.generation, "applied", s.applied)
		return
	}
	s.applied = msg.generation
	s.log.Info("documents received", "count", len(msg.Documents))

	visible := strset.New()
	filenames := make([]string, 0, len(msg.Documents))
	for _, filename := range msg.Documents {
		if visible.Has(filename) {
			continue
		}
		visible.Add(filename)
		filenames = append(filenames, filename)
	}

	// Replay what happened while the listing was in flight.
	replayed := s.events[:0]
	for _, e := range s.events {
		if e.seq <= msg.since {
			continue
		}
		replayed = append(replayed, e)
		switch {
		case e.removed && visible.Has(e.filename):
			visible.Remove(e.filename)
			filenames = remove(filenames, e.filename)
		case !e.removed && !visible.Has(e.filename):
			visible.Add(e.filename)
			filenames = append(filenames, e.filename)
		}
	}
	s.events = replayed

	s.list.Clear()
	for _, filename := range filenames {
		s.list.Append(s.newEntry(filename))
	}
}

func (s *Store) record(filename string, removed bool) {
	s.seq++
	if s.inflight == 0 {
		return
	}
	s.events = append(s.events, event{seq: s.seq, filename: filename, removed: removed})
}

func (s *Store) find(filename string) *types.Entry {
	if s.list == nil {
		return nil
	}
	for _, entry := range s.list.Entries() {
		if entry.Filename == filename {
			return entry
		}
	}
	return nil
}

func (s *Store) newEntry(filename string) *types.Entry {
	return &types.Entry{Filename: filename, Deletable: s.render.Admin}
}

func remove(filenames []string, filename string) []string {
	for i, f := range filenames {
		if f == filename {
			return append(filenames[:i], filenames[i+1:]...)
		}
	}
	return filenames
}
