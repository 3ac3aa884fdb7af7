package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/petalsafe/petalsafe-backend/internal/api/respond"
	"github.com/petalsafe/petalsafe-backend/internal/services"
)

// SafetyHandler serves the silence monitor endpoints.
type SafetyHandler struct {
	svc *services.SafetyService
}

func NewSafetyHandler(svc *services.SafetyService) *SafetyHandler {
	return &SafetyHandler{svc: svc}
}

func (h *SafetyHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]
	if accountID == "" {
		respond.WriteBadRequest(w, "accountId required")
		return
	}
	when, err := h.svc.CheckIn(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"lastActivityAt": when,
	})
}

func (h *SafetyHandler) Status(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]
	if accountID == "" {
		respond.WriteBadRequest(w, "accountId required")
		return
	}
	report, err := h.svc.CheckStatus(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, report)
}
