// Package mockbackend is a canned stand-in for the person search service. It
// answers from a fixed table and does no ranking or scoring of its own.
package mockbackend

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mgomes/pfind/internal/search"
)

const (
	missingFieldsError = "Company and designation are required"
	noMatchError       = "No person found matching the criteria"
	noMatchSuggestion  = "Try broader search terms or check company spelling"
)

// Call records a request made to the mock service.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

type match struct {
	person      search.Person
	sourcesUsed any
}

type Server struct {
	mu      sync.Mutex
	calls   []Call
	matches map[string]match
}

// New returns a server preloaded with a few well known answers.
func New() *Server {
	s := &Server{matches: make(map[string]match)}

	s.Add("PONANT", search.Person{
		FirstName:    "Jean",
		LastName:     "Dupont",
		CurrentTitle: "CEO",
		Confidence:   0.87,
		SourceURL:    "https://example.com/p",
	}, 3)

	s.Add("Tesla", search.Person{
		FirstName:    "Elon",
		LastName:     "Musk",
		CurrentTitle: "CEO",
		Confidence:   1.0,
		SourceURL:    "https://www.tesla.com/about/leadership",
	}, 1)

	s.Add("FareHarbor", search.Person{
		FirstName:    "Alex",
		LastName:     "Morgan",
		CurrentTitle: "Senior Strategic Partnerships Manager",
		Confidence:   0.62,
		SourceURL:    "https://www.linkedin.com/company/fareharbor",
	}, "LinkedIn, company site")

	return s
}

// Add registers the answer for company. sourcesUsed is sent as is, so it may
// be a number or a string.
func (s *Server) Add(company string, person search.Person, sourcesUsed any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[key(company)] = match{person: person, sourcesUsed: sourcesUsed}
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)
	return s.record(mux)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close() //nolint:errcheck
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "error": "method not allowed"})
		return
	}

	var q search.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	q = q.Normalize()
	if q.Company == "" || q.Designation == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": missingFieldsError})
		return
	}

	slog.InfoContext(r.Context(), "mock search",
		slog.String("company", q.Company),
		slog.String("designation", q.Designation),
		slog.String("request_id", r.Header.Get("X-Request-Id")),
	)

	s.mu.Lock()
	m, ok := s.matches[key(q.Company)]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     false,
			"error":       noMatchError,
			"suggestions": noMatchSuggestion,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"person":       m.person,
		"sources_used": m.sourcesUsed,
		"all_sources":  []string{m.person.SourceURL},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write mock response", slog.Any("error", err))
	}
}

func key(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}
