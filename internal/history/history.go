// Package history keeps the queries submitted to the chat, for recall from the input.
package history

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/malonaz/notebook/internal/debug"
)

const maxQueries = 500

// Query is one submitted chat query.
type Query struct {
	Text    string    `json:"text"`
	AskedAt time.Time `json:"asked_at"`
}

// History is an append-only log of queries, stored as json lines.
// An empty path keeps it in memory only.
type History struct {
	mu      sync.Mutex
	path    string
	queries []Query
	log     *slog.Logger

	// Recall state: cursor is -1 when the input holds a draft.
	cursor int
	draft  string
}

// NewHistory creates a History, loading the queries already stored at path.
func NewHistory(path string) *History {
	h := &History{path: path, cursor: -1, log: debug.GetLogger()}
	if err := h.load(); err != nil {
		h.log.Warn("loading query history", "path", path, "error", err)
	}
	return h
}

// Entries returns the recorded query texts, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	texts := make([]string, len(h.queries))
	for i, query := range h.queries {
		texts[i] = query.Text
	}
	return texts
}

// Record stores a query the chat accepted. Blank queries and repeats of
// the last query are skipped. Recording ends any recall in progress.
func (h *History) Record(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor, h.draft = -1, ""

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if n := len(h.queries); n > 0 && h.queries[n-1].Text == text {
		return
	}
	query := Query{Text: text, AskedAt: time.Now().UTC()}
	h.queries = append(h.queries, query)

	var err error
	if len(h.queries) > maxQueries {
		h.queries = h.queries[len(h.queries)-maxQueries:]
		err = h.rewrite()
	} else {
		err = h.append(query)
	}
	if err != nil {
		h.log.Warn("persisting query history", "path", h.path, "error", err)
	}
}

// Older steps back to the previous query. draft is the input being edited,
// restored once Newer walks past the most recent query.
func (h *History) Older(draft string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case len(h.queries) == 0:
		return "", false
	case h.cursor == -1:
		h.draft = draft
		h.cursor = len(h.queries) - 1
	case h.cursor == 0:
		return h.queries[0].Text, false
	default:
		h.cursor--
	}
	return h.queries[h.cursor].Text, true
}

// Newer steps forward, ending on the saved draft.
func (h *History) Newer() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor < len(h.queries) {
		return h.queries[h.cursor].Text, true
	}
	draft := h.draft
	h.cursor, h.draft = -1, ""
	return draft, true
}

// Rewind abandons the recall in progress, e.g. when the input is edited.
func (h *History) Rewind() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor, h.draft = -1, ""
}

func (h *History) load() error {
	if h.path == "" {
		return nil
	}
	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "opening history")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var query Query
		if err := json.Unmarshal(scanner.Bytes(), &query); err != nil || query.Text == "" {
			continue
		}
		h.queries = append(h.queries, query)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading history")
	}
	if len(h.queries) > maxQueries {
		h.queries = h.queries[len(h.queries)-maxQueries:]
		return h.rewrite()
	}
	return nil
}

// append adds one line to the history file.
func (h *History) append(query Query) error {
	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return errors.Wrap(err, "creating history directory")
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "opening history")
	}
	defer f.Close()
	return errors.Wrap(json.NewEncoder(f).Encode(query), "writing query")
}

// rewrite replaces the history file with the retained queries.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return errors.Wrap(err, "creating history directory")
	}
	f, err := os.Create(h.path)
	if err != nil {
		return errors.Wrap(err, "creating history")
	}
	defer f.Close()
	encoder := json.NewEncoder(f)
	for _, query := range h.queries {
		if err := encoder.Encode(query); err != nil {
			return errors.Wrap(err, "writing query")
		}
	}
	return nil
}
