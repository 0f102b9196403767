package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/transfermarket/platform/internal/service"
)

// PlayerHandler serves the public player registry views.
type PlayerHandler struct {
	playerSvc *service.PlayerService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(playerSvc *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerSvc: playerSvc}
}

// List handles GET /players?club_id=.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	var clubID *uuid.UUID
	if raw := r.URL.Query().Get("club_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondJSON(w, http.StatusBadRequest, map[string]string{
				"code":    "VALIDATION_ERROR",
				"message": "invalid club_id filter",
			})
			return
		}
		clubID = &id
	}

	players, err := h.playerSvc.List(r.Context(), clubID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, players)
}

// Get handles GET /players/{id}.
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	player, err := h.playerSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, player)
}
