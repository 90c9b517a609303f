// internal/httpserver/routes_play.go
//
// HTTP routes for anagram play sessions. The browser drives the session
// with discrete input events; every response is the full session snapshot,
// so the UI just re-renders what it receives.
//
//   - POST   /play/anagram/{gameID}/new  → open a session (fetches questions upstream)
//   - GET    /play/session/{sessionID}        → snapshot
//   - POST   /play/session/{sessionID}/tile   → tile selection {index}
//   - POST   /play/session/{sessionID}/slot   → slot removal {index}
//   - POST   /play/session/{sessionID}/key    → keyboard input {key}
//   - POST   /play/session/{sessionID}/nav    → navigation {dir: prev|next}
//   - POST   /play/session/{sessionID}/retry  → re-arm a failed answer check
//   - POST   /play/session/{sessionID}/again  → play again from finished
//   - DELETE /play/session/{sessionID}        → teardown

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joselinputri/anagram-arcade/internal/anagram"
	"github.com/joselinputri/anagram-arcade/internal/play"
)

// mountPlay registers all /play routes.
func (s *Server) mountPlay(r chi.Router) {
	r.Post("/play/anagram/{gameID}/new", s.handleNewSession)
	r.Route("/play/session/{sessionID}", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Delete("/", s.handleCloseSession)
		r.Post("/tile", s.sessionEvent(func(ctx reqCtx, body eventReq) (anagram.Snapshot, error) {
			return s.plays.Tile(ctx.ctx, ctx.sessionID, body.Index)
		}))
		r.Post("/slot", s.sessionEvent(func(ctx reqCtx, body eventReq) (anagram.Snapshot, error) {
			return s.plays.Slot(ctx.ctx, ctx.sessionID, body.Index)
		}))
		r.Post("/key", s.sessionEvent(func(ctx reqCtx, body eventReq) (anagram.Snapshot, error) {
			return s.plays.Key(ctx.ctx, ctx.sessionID, body.Key)
		}))
		r.Post("/nav", s.handleNavigate)
		r.Post("/retry", s.sessionEvent(func(ctx reqCtx, body eventReq) (anagram.Snapshot, error) {
			return s.plays.Retry(ctx.ctx, ctx.sessionID)
		}))
		r.Post("/again", s.sessionEvent(func(ctx reqCtx, body eventReq) (anagram.Snapshot, error) {
			return s.plays.Again(ctx.ctx, ctx.sessionID)
		}))
	})
}

// newSessionRes is returned by /play/anagram/{gameID}/new.
type newSessionRes struct {
	SessionID string           `json:"sessionId"`
	State     anagram.Snapshot `json:"state"`
}

// handleNewSession opens a play session. A failure to load the question set
// is page-level: the error propagates so the browser shows its error view.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	h, snap, err := s.plays.New(r.Context(), gameID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionRes{SessionID: h.ID, State: snap})
}

// handleSnapshot returns the current session state.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.plays.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleCloseSession tears the session down.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.plays.Close(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// eventReq is the shared body shape for input events. Gated or invalid
// events are no-ops, so handlers never 4xx on game-rule grounds; the
// snapshot tells the UI what actually happened.
type eventReq struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Dir   string `json:"dir"`
}

type reqCtx struct {
	ctx       context.Context
	sessionID string
}

// sessionEvent adapts an event closure into an HTTP handler.
func (s *Server) sessionEvent(apply func(reqCtx, eventReq) (anagram.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body eventReq
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		snap, err := apply(reqCtx{ctx: r.Context(), sessionID: chi.URLParam(r, "sessionID")}, body)
		if err != nil {
			if err == play.ErrNotFound {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// handleNavigate maps prev/next onto the engine's delta.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var body eventReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	var delta int
	switch body.Dir {
	case "prev":
		delta = -1
	case "next":
		delta = 1
	default:
		http.Error(w, `{"error":"bad_direction"}`, http.StatusBadRequest)
		return
	}
	snap, err := s.plays.Navigate(r.Context(), chi.URLParam(r, "sessionID"), delta)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
