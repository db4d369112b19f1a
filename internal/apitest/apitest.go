// Package apitest provides an in-process notebook server for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
)

// Endpoint patterns, usable with Fail, Respond and Drop.
const (
	Upload         = "POST /upload"
	ListDocuments  = "GET /documents"
	DeleteDocument = "DELETE /documents/{filename}"
	Chat           = "POST /chat"
)

// Request is a request recorded by the server.
type Request struct {
	Pattern   string
	Filename  string
	Query     string
	APIKey    string
	HasAPIKey bool
	RequestID string
}

type override struct {
	code int
	body string
	drop bool
}

// Server is a fake notebook server holding an ordered set of documents.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	documents []string
	requests  []Request
	overrides map[string]override
	answer    func(query string) string
}

// New starts a server seeded with the given documents. It is closed when the test ends.
func New(t testing.TB, documents ...string) *Server {
	s := &Server{
		documents: append([]string{}, documents...),
		overrides: map[string]override{},
		answer:    func(query string) string { return "answer to " + query },
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Upload, s.wrap(Upload, s.upload))
	mux.HandleFunc(ListDocuments, s.wrap(ListDocuments, s.listDocuments))
	mux.HandleFunc(DeleteDocument, s.wrap(DeleteDocument, s.deleteDocument))
	mux.HandleFunc(Chat, s.wrap(Chat, s.chat))
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Documents returns the documents currently recorded by the server.
func (s *Server) Documents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.documents...)
}

// SetDocuments replaces the recorded documents.
func (s *Server) SetDocuments(documents ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append([]string{}, documents...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request{}, s.requests...)
}

// Count returns how many requests were received on an endpoint.
func (s *Server) Count(pattern string) int {
	count := 0
	for _, request := range s.Requests() {
		if request.Pattern == pattern {
			count++
		}
	}
	return count
}

// SetAnswer sets how chat queries are answered.
func (s *Server) SetAnswer(answer func(query string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer = answer
}

// Fail makes an endpoint answer with the given status and json body.
func (s *Server) Fail(pattern string, code int, body string) {
	s.Respond(pattern, code, body)
}

// Respond makes an endpoint answer with the given status and raw body.
func (s *Server) Respond(pattern string, code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[pattern] = override{code: code, body: body}
}

// Drop makes an endpoint close the connection without answering.
func (s *Server) Drop(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[pattern] = override{drop: true}
}

// Reset removes every override.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = map[string]override{}
}

func (s *Server) wrap(pattern string, handler func(http.ResponseWriter, *http.Request, *Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request := &Request{Pattern: pattern, RequestID: r.Header.Get("X-Request-Id")}

		s.mu.Lock()
		o, ok := s.overrides[pattern]
		s.mu.Unlock()

		switch {
		case ok && o.drop:
			s.record(request)
			hijacker, _ := w.(http.Hijacker)
			conn, _, err := hijacker.Hijack()
			if err == nil {
				conn.Close()
			}
		case ok:
			s.record(request)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.code)
			io.WriteString(w, o.body)
		default:
			handler(w, r, request)
			s.record(request)
		}
	}
}

func (s *Server) record(request *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, *request)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, request *Request) {
	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	defer f.Close()
	content, _ := io.ReadAll(f)
	request.Filename = header.Filename

	s.mu.Lock()
	if !slices.Contains(s.documents, header.Filename) {
		s.documents = append(s.documents, header.Filename)
	}
	s.mu.Unlock()

	preview := string(content)
	if len(preview) > 100 {
		preview = preview[:100]
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"filename":     header.Filename,
		"status":       "Processed",
		"text_preview": preview + "...",
	})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request, request *Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"documents": s.Documents()})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request, request *Request) {
	filename := r.PathValue("filename")
	request.Filename = filename

	s.mu.Lock()
	index := slices.Index(s.documents, filename)
	if index >= 0 {
		s.documents = slices.Delete(s.documents, index, index+1)
	}
	s.mu.Unlock()

	status := "Deleted"
	if index < 0 {
		status = "Not Found"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status, "filename": filename})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request, request *Request) {
	payload := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	request.Query, _ = payload["query"].(string)
	if apiKey, ok := payload["api_key"]; ok {
		request.HasAPIKey = true
		request.APIKey, _ = apiKey.(string)
	}

	s.mu.Lock()
	answer := s.answer
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer(request.Query)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
