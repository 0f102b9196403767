package admin

import (
	"net/http"
	"strconv"

	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/handler"
	"github.com/transfermarket/platform/internal/service"
)

// FraudAdminHandler handles fraud alert review and statistics.
type FraudAdminHandler struct {
	fraudSvc *service.FraudService
}

// NewFraudAdminHandler creates a new FraudAdminHandler.
func NewFraudAdminHandler(fraudSvc *service.FraudService) *FraudAdminHandler {
	return &FraudAdminHandler{fraudSvc: fraudSvc}
}

// List handles GET /admin/fraud/alerts?status=&limit=.
func (h *FraudAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.FraudAlertStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		switch domain.FraudAlertStatus(raw) {
		case domain.AlertPending, domain.AlertResolved, domain.AlertFalsePositive:
			s := domain.FraudAlertStatus(raw)
			status = &s
		default:
			handler.RespondError(w, domain.ErrValidation("unknown alert status filter: "+raw))
			return
		}
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	alerts, err := h.fraudSvc.List(r.Context(), status, limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, alerts)
}

// Get handles GET /admin/fraud/alerts/{id}.
func (h *FraudAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	alert, err := h.fraudSvc.Get(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, alert)
}

// Review handles POST /admin/fraud/alerts/{id}/review.
func (h *FraudAdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := handler.ActorUserID(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.ReviewInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondBadBody(w)
		return
	}

	alert, err := h.fraudSvc.Review(r.Context(), reviewerID, id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, alert)
}

// Statistics handles GET /admin/fraud/statistics.
func (h *FraudAdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fraudSvc.Statistics(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, stats)
}

// Notifications handles GET /admin/notifications.
func (h *FraudAdminHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.fraudSvc.Notifications(r.Context(), limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, items)
}
