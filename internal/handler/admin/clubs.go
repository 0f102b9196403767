package admin

import (
	"net/http"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/handler"
	"github.com/transfermarket/platform/internal/service"
)

// ClubAdminHandler handles club registration review.
type ClubAdminHandler struct {
	clubSvc *service.ClubService
}

// NewClubAdminHandler creates a new ClubAdminHandler.
func NewClubAdminHandler(clubSvc *service.ClubService) *ClubAdminHandler {
	return &ClubAdminHandler{clubSvc: clubSvc}
}

// List handles GET /admin/clubs?approval=.
func (h *ClubAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	var approval *domain.ClubApproval
	if raw := r.URL.Query().Get("approval"); raw != "" {
		switch domain.ClubApproval(raw) {
		case domain.ClubPending, domain.ClubApproved, domain.ClubRejected:
			a := domain.ClubApproval(raw)
			approval = &a
		default:
			handler.RespondError(w, domain.ErrValidation("unknown approval filter: "+raw))
			return
		}
	}

	clubs, err := h.clubSvc.List(r.Context(), approval)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, clubs)
}

// Review handles POST /admin/clubs/{id}/review.
func (h *ClubAdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input struct {
		Approve bool `json:"approve"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	club, err := h.clubSvc.Review(r.Context(), id, input.Approve)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, club)
}
