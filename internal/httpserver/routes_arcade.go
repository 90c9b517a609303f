// internal/httpserver/routes_arcade.go
//
// Arcade routes: coins, leaderboard, pendant shop, progress, and result
// submission. These are thin passthroughs to the Result Reporting Service;
// the one piece of local behavior is the result journal: a submission the
// upstream cannot take right now is queued and retried instead of dropped.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/joselinputri/anagram-arcade/internal/api"
	"github.com/joselinputri/anagram-arcade/internal/memorize"
	"github.com/joselinputri/anagram-arcade/internal/report"
)

// mountArcade registers all /arcade routes.
func (s *Server) mountArcade(r chi.Router) {
	r.Route("/arcade", func(r chi.Router) {
		r.Get("/coins", s.handleCoins)
		r.Get("/progress", s.handleProgress)
		r.Get("/pendants/shop", s.handlePendantShop)
		r.Get("/pendants/owned", s.handleOwnedPendants)
		r.Post("/pendants/purchase", s.handlePurchasePendant)
		r.Get("/{gameID}/leaderboard", s.handleLeaderboard)
		r.Post("/{gameID}/result", s.handleSubmitResult)
		r.Get("/difficulties", s.handleDifficulties)
	})
}

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	coins, err := s.reports.GetCoins(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coins)
}

// handleProgress returns the legacy progress record; "no data yet" comes
// back as an explicit null rather than an error.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.reports.GetProgress(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*report.Progress{"progress": progress})
}

func (s *Server) handlePendantShop(w http.ResponseWriter, r *http.Request) {
	shop, err := s.reports.GetPendantShop(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

func (s *Server) handleOwnedPendants(w http.ResponseWriter, r *http.Request) {
	owned, err := s.reports.GetOwnedPendants(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owned)
}

type purchaseReq struct {
	PendantID string `json:"pendantId"`
}

func (s *Server) handlePurchasePendant(w http.ResponseWriter, r *http.Request) {
	var body purchaseReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PendantID == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	receipt, err := s.reports.PurchasePendant(r.Context(), body.PendantID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	lb, err := s.reports.GetLeaderboard(r.Context(), chi.URLParam(r, "gameID"), limit)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// handleDifficulties serves the fixed Watch & Memorize difficulty table.
func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, memorize.Configs)
}

// submitResultRes is returned when a result had to be journaled.
type submitResultRes struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// handleSubmitResult validates a finished-session result, recomputes the
// coins, and reports it upstream. When the upstream cannot take it (network
// failure or 5xx) the submission is journaled and retried in the background,
// so the player's result is never silently lost.
func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	var result report.GameResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if err := memorize.ValidateResult(&result); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_result", "message": err.Error()})
		return
	}

	evt := log.Info().Str("gameId", gameID).Int("score", result.Score)
	if u := currentUser(r); u != nil {
		evt = evt.Str("user", u.Username)
	}
	evt.Msg("result submitted")

	receipt, err := s.reports.SubmitResult(r.Context(), gameID, result)
	if err == nil {
		writeJSON(w, http.StatusOK, receipt)
		return
	}
	if !retryable(err) {
		writeUpstreamError(w, err)
		return
	}

	token := api.TokenFromContext(r.Context())
	if s.journal == nil {
		writeUpstreamError(w, err)
		return
	}
	if qerr := s.journal.Enqueue(r.Context(), gameID, token, result, err.Error()); qerr != nil {
		log.Error().Err(qerr).Str("gameId", gameID).Msg("journal result")
		writeUpstreamError(w, err)
		return
	}
	log.Warn().Err(err).Str("gameId", gameID).Msg("result queued for retry")
	writeJSON(w, http.StatusAccepted, submitResultRes{Queued: true, Message: "result stored; it will be reported when the service is reachable"})
}
