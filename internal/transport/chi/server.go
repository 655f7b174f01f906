// Package chi exposes the query API over HTTP.
package chi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	logpkg "github.com/threadsage/threadsage/internal/logger"
	answeruc "github.com/threadsage/threadsage/internal/usecase/answer"
	healthuc "github.com/threadsage/threadsage/internal/usecase/health"
)

// Server handles the public query API.
type Server struct {
	answers *answeruc.Service
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(answers *answeruc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{answers: answers, health: health, logger: logger}
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleLanding)
	r.Post("/api/search", s.handleSearch)
	r.Get("/api/search", s.handleSearchGet)
	r.Get("/api/health", s.handleHealth)
}

type searchRequest struct {
	Query     string `json:"query"`
	Subreddit string `json:"subreddit"`
}

type searchResponse struct {
	Query            string `json:"query"`
	Answer           string `json:"answer,omitempty"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	PostsFound       int    `json:"postsFound"`
	Error            string `json:"error,omitempty"`
}

// handleSearch handles POST /api/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, searchResponse{Error: "Invalid request body"})
		return
	}
	s.answerQuery(w, r, req.Query, req.Subreddit)
}

// handleSearchGet handles GET /api/search?q=&subreddit=.
func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	s.answerQuery(w, r, r.URL.Query().Get("q"), r.URL.Query().Get("subreddit"))
}

func (s *Server) answerQuery(w http.ResponseWriter, r *http.Request, query, community string) {
	query = strings.TrimSpace(query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, searchResponse{Error: "Query cannot be empty"})
		return
	}

	start := time.Now()
	ans := s.answers.Answer(r.Context(), query, strings.TrimSpace(community))

	logpkg.FromContext(r.Context()).Info("query answered",
		zap.String("query", query),
		zap.String("community", community),
		zap.Int("posts_found", ans.PostsFound),
		zap.Duration("duration", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, searchResponse{
		Query:            query,
		Answer:           ans.Text,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		PostsFound:       ans.PostsFound,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// handleLanding serves the self-contained HTML search page.
func (s *Server) handleLanding(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(landingPage))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
