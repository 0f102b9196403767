package admin

import (
	"net/http"

	"github.com/transfermarket/platform/internal/handler"
	"github.com/transfermarket/platform/internal/service"
)

// PlayerAdminHandler handles player registry management.
type PlayerAdminHandler struct {
	playerSvc *service.PlayerService
}

// NewPlayerAdminHandler creates a new PlayerAdminHandler.
func NewPlayerAdminHandler(playerSvc *service.PlayerService) *PlayerAdminHandler {
	return &PlayerAdminHandler{playerSvc: playerSvc}
}

// Create handles POST /admin/players.
func (h *PlayerAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PlayerInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	p, err := h.playerSvc.Create(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, p)
}

// Update handles PUT /admin/players/{id}.
func (h *PlayerAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.PlayerInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	p, err := h.playerSvc.Update(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, p)
}

// Retire handles POST /admin/players/{id}/retire. Players are never
// deleted; this flips the lifecycle flag instead.
func (h *PlayerAdminHandler) Retire(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	p, err := h.playerSvc.Retire(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, p)
}
