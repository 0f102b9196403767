package admin

import (
	"net/http"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/handler"
	"github.com/transfermarket/platform/internal/service"
)

// TransferAdminHandler handles admin overrides on transfers. Admin calls
// bypass the club-ownership checks but still obey the state machine and
// window gating.
type TransferAdminHandler struct {
	transferSvc *service.TransferService
}

// NewTransferAdminHandler creates a new TransferAdminHandler.
func NewTransferAdminHandler(transferSvc *service.TransferService) *TransferAdminHandler {
	return &TransferAdminHandler{transferSvc: transferSvc}
}

// Create handles POST /admin/transfers. Used to list free agents, who have
// no selling club to act for them.
func (h *TransferAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTransferInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	t, err := h.transferSvc.Create(r.Context(), nil, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, t)
}

// UpdateStatus handles PATCH /admin/transfers/{id}/status.
func (h *TransferAdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	t, err := h.transferSvc.UpdateStatus(r.Context(), nil, id, domain.TransferStatus(input.Status))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /admin/transfers/{id}.
func (h *TransferAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	if err := h.transferSvc.Delete(r.Context(), nil, id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}
