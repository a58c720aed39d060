package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/theom/scoreboard-api/internal/application/scoreboard"
	"github.com/theom/scoreboard-api/internal/domain"
	"github.com/theom/scoreboard-api/internal/transport/http/middleware"
)

// ScoreboardHandler handles the per-user tally endpoints.
type ScoreboardHandler struct {
	svc scoreboard.Service
}

func NewScoreboardHandler(svc scoreboard.Service) *ScoreboardHandler {
	return &ScoreboardHandler{svc: svc}
}

func (h *ScoreboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	board, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreboardEnvelope{Scoreboard: board})
}

func (h *ScoreboardHandler) Action(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	switch chi.URLParam(r, "action") {
	case "increment":
		h.bump(w, r, claims.UserID, h.svc.Increment)
	case "decrement":
		h.bump(w, r, claims.UserID, h.svc.Decrement)
	case "reset":
		board, err := h.svc.Reset(r.Context(), claims.UserID)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ScoreboardEnvelope{Scoreboard: board})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

type bumpFn func(ctx context.Context, userID string, side domain.Side) (*domain.Scoreboard, error)

func (h *ScoreboardHandler) bump(w http.ResponseWriter, r *http.Request, userID string, fn bumpFn) {
	var req struct {
		Side string `json:"side"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	side, err := domain.ParseSide(req.Side)
	if err != nil {
		httpError(w, err)
		return
	}
	board, err := fn(r.Context(), userID, side)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreboardEnvelope{Scoreboard: board})
}
