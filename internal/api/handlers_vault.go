package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/petalsafe/petalsafe-backend/internal/api/respond"
	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/services"
)

// VaultHandler serves the evidence vault. Every route requires the bearer
// token minted at login, and the token's account must own the path account.
type VaultHandler struct {
	svc  *services.VaultService
	auth *services.AuthService
}

func NewVaultHandler(svc *services.VaultService, auth *services.AuthService) *VaultHandler {
	return &VaultHandler{svc: svc, auth: auth}
}

// authorize resolves the bearer token and enforces ownership of the path
// account. A missing or bad token is a 401; a valid token for a different
// account is a 403.
func (h *VaultHandler) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID := mux.Vars(r)["accountId"]
	if accountID == "" {
		respond.WriteBadRequest(w, "accountId required")
		return "", false
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respond.WriteError(w, http.StatusUnauthorized, "bearer token required")
		return "", false
	}
	tokenAccountID, err := h.auth.VerifyToken(token)
	if err != nil {
		respond.WriteError(w, http.StatusUnauthorized, "invalid token")
		return "", false
	}
	if tokenAccountID != accountID {
		respond.WriteForbidden(w, "not allowed")
		return "", false
	}
	return accountID, true
}

func (h *VaultHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var in struct {
		CoverImageURL string `json:"coverImageUrl"`
		RealImageURL  string `json:"realImageUrl"`
		Note          string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	item, err := h.svc.AddItem(r.Context(), accountID, model.VaultItem{
		CoverImageURL: in.CoverImageURL,
		RealImageURL:  in.RealImageURL,
		Note:          in.Note,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, item)
}

func (h *VaultHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	items, err := h.svc.ListItems(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}
