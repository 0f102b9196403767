package handler

import (
	"net/http"
	"strconv"

	"github.com/transfermarket/platform/internal/service"
)

// OfferHandler handles bid endpoints (club realm).
type OfferHandler struct {
	offerSvc *service.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerSvc *service.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// Create handles POST /transfers/{id}/offers.
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	clubID, err := ActorClubID(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	transferID, err := PathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	o, err := h.offerSvc.Create(r.Context(), clubID, transferID, input.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, o)
}

// Accept handles POST /offers/{id}/accept.
func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.offerSvc.Accept(r.Context(), clubID, id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, o)
}

// Reject handles POST /offers/{id}/reject.
func (h *OfferHandler) Reject(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.offerSvc.Reject(r.Context(), clubID, id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, o)
}

// Counter handles POST /offers/{id}/counter.
func (h *OfferHandler) Counter(w http.ResponseWriter, r *http.Request) {
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
		Amount int64 `json:"amount"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	o, err := h.offerSvc.Counter(r.Context(), clubID, id, input.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, o)
}

// Withdraw handles DELETE /offers/{id}.
func (h *OfferHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
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

	if err := h.offerSvc.Withdraw(r.Context(), clubID, id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// queryLimit parses the limit query parameter; services clamp the range.
func queryLimit(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}
