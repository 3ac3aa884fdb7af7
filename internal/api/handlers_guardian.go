package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/petalsafe/petalsafe-backend/internal/api/respond"
	"github.com/petalsafe/petalsafe-backend/internal/services"
)

// GuardianHandler serves guardian linking and the watch list.
type GuardianHandler struct {
	svc *services.GuardianService
}

func NewGuardianHandler(svc *services.GuardianService) *GuardianHandler {
	return &GuardianHandler{svc: svc}
}

func (h *GuardianHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID        string `json:"accountId"`
		GuardianUsername string `json:"guardianUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	guardian, err := h.svc.Connect(r.Context(), in.AccountID, in.GuardianUsername)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"guardianId":       guardian.AccountID,
		"guardianUsername": guardian.Username,
		"connectedCount":   len(guardian.ConnectedAccountIDs),
	})
}

func (h *GuardianHandler) WatchedUsers(w http.ResponseWriter, r *http.Request) {
	guardianID := mux.Vars(r)["guardianId"]
	if guardianID == "" {
		respond.WriteBadRequest(w, "guardianId required")
		return
	}

	guardian, summaries, err := h.svc.WatchedAccounts(r.Context(), guardianID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"guardianUsername": guardian.Username,
		"users":            summaries,
		"count":            len(summaries),
	})
}
