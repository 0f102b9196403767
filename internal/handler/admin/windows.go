package admin

import (
	"net/http"

	"github.com/transfermarket/platform/internal/handler"
	"github.com/transfermarket/platform/internal/service"
)

// WindowAdminHandler handles transfer window administration.
type WindowAdminHandler struct {
	windowSvc *service.WindowService
}

// NewWindowAdminHandler creates a new WindowAdminHandler.
func NewWindowAdminHandler(windowSvc *service.WindowService) *WindowAdminHandler {
	return &WindowAdminHandler{windowSvc: windowSvc}
}

// Create handles POST /admin/windows.
func (h *WindowAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.WindowInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	win, err := h.windowSvc.Create(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, win)
}

// Update handles PUT /admin/windows/{id}.
func (h *WindowAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.WindowInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	win, err := h.windowSvc.Update(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, win)
}

// Open handles POST /admin/windows/{id}/open.
func (h *WindowAdminHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	win, err := h.windowSvc.Open(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, win)
}

// Close handles POST /admin/windows/{id}/close.
func (h *WindowAdminHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	win, err := h.windowSvc.Close(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, win)
}
