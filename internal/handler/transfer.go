package handler

import (
	"net/http"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/service"
)

// TransferHandler handles the transfer listing endpoints.
type TransferHandler struct {
	transferSvc *service.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc *service.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// List handles GET /transfers?status=&limit=.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.TransferStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if !domain.ValidTransferStatus(raw) {
			RespondError(w, domain.ErrValidation("unknown transfer status filter: "+raw))
			return
		}
		s := domain.TransferStatus(raw)
		status = &s
	}

	transfers, err := h.transferSvc.List(r.Context(), status, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, transfers)
}

// Get handles GET /transfers/{id}.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	t, err := h.transferSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, t)
}

// Offers handles GET /transfers/{id}/offers.
func (h *TransferHandler) Offers(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	offers, err := h.transferSvc.Offers(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, offers)
}

// Create handles POST /transfers (club realm).
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	clubID, err := ActorClubID(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.CreateTransferInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	t, err := h.transferSvc.Create(r.Context(), &clubID, input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, t)
}

// UpdateStatus handles PATCH /transfers/{id}/status (club realm).
func (h *TransferHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	clubID, err := ActorClubID(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	id, err := PathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	t, err := h.transferSvc.UpdateStatus(r.Context(), &clubID, id, domain.TransferStatus(input.Status))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /transfers/{id} (club realm).
func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clubID, err := ActorClubID(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	id, err := PathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.transferSvc.Delete(r.Context(), &clubID, id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}
