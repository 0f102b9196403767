package handler

import (
	"net/http"

	"github.com/transfermarket/platform/internal/service"
)

// WindowHandler serves the public transfer-window views.
type WindowHandler struct {
	windowSvc *service.WindowService
}

// NewWindowHandler creates a new WindowHandler.
func NewWindowHandler(windowSvc *service.WindowService) *WindowHandler {
	return &WindowHandler{windowSvc: windowSvc}
}

// List handles GET /windows.
func (h *WindowHandler) List(w http.ResponseWriter, r *http.Request) {
	windows, err := h.windowSvc.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, windows)
}

// Status handles GET /windows/status. Clients use it to show whether the
// market currently admits listings, bids and acceptances.
func (h *WindowHandler) Status(w http.ResponseWriter, r *http.Request) {
	open, err := h.windowSvc.MarketOpen(r.Context(), nil)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]bool{"open": open})
}
