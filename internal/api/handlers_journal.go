package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/petalsafe/petalsafe-backend/internal/api/respond"
	"github.com/petalsafe/petalsafe-backend/internal/services"
)

// JournalHandler serves journal writes and reads.
type JournalHandler struct {
	svc *services.JournalService
}

func NewJournalHandler(svc *services.JournalService) *JournalHandler {
	return &JournalHandler{svc: svc}
}

func (h *JournalHandler) Log(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID string `json:"accountId"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	entry, err := h.svc.Log(r.Context(), in.AccountID, in.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"entryId":         entry.EntryID,
		"riskScore":       entry.RiskScore,
		"detectedThreats": entry.DetectedThreats,
		"creationTime":    entry.CreationTime,
	})
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]
	if accountID == "" {
		respond.WriteBadRequest(w, "accountId required")
		return
	}
	entries, err := h.svc.List(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}
