// internal/httpserver/server.go
//
// HTTP wiring for the arcade play server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Play endpoints (optional auth): session lifecycle + input events.
//   - Arcade endpoints (optional auth): coins, leaderboard, pendant shop,
//     result submission: thin passthroughs to the Result Reporting Service,
//     with failed result submissions journaled for retry.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Optional auth decorates requests with the player identity when a valid
//     token is present and forwards the raw bearer upstream; guests play too.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/joselinputri/anagram-arcade/internal/api"
	"github.com/joselinputri/anagram-arcade/internal/play"
	"github.com/joselinputri/anagram-arcade/internal/queue"
	"github.com/joselinputri/anagram-arcade/internal/report"
)

// Server bundles router, play manager, report client, and the result journal.
type Server struct {
	r       *chi.Mux
	plays   *play.Manager
	reports *report.Client
	journal *queue.Store

	jwtSecret    string
	clientOrigin string
}

// New constructs a Server, installs middleware, and registers routes.
func New(plays *play.Manager, reports *report.Client, journal *queue.Store, jwtSecret, clientOrigin string) *Server {
	s := &Server{
		r:            chi.NewRouter(),
		plays:        plays,
		reports:      reports,
		journal:      journal,
		jwtSecret:    jwtSecret,
		clientOrigin: clientOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(15 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"anagram-arcade","endpoints":["/health","POST /play/anagram/{gameId}/new","/play/session/{sessionId}","/arcade/*"]}`))
	})
	s.r.Get("/health", s.handleHealth)

	// Play + arcade endpoints, OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountPlay(r)
		s.mountArcade(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleHealth reports liveness plus the result-queue depth.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	depth := -1
	if s.journal != nil {
		if n, err := s.journal.PendingCount(r.Context()); err == nil {
			depth = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "queuedResults": depth})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured browser origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.clientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeUpstreamError maps an upstream failure onto the local surface:
// typed API errors keep their status and message, anything else is a 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var ae *api.APIError
	if errors.As(err, &ae) {
		writeJSON(w, ae.Status, map[string]string{"error": "upstream_error", "message": ae.Message})
		return
	}
	log.Error().Err(err).Msg("upstream unreachable")
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream_unreachable"})
}

// retryable reports whether a failed result submission is worth queueing:
// transport errors and upstream 5xx are; upstream 4xx rejections are final.
func retryable(err error) bool {
	var ae *api.APIError
	if errors.As(err, &ae) {
		return ae.Status >= 500
	}
	return true
}
