package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/petalsafe/petalsafe-backend/internal/alert"
	"github.com/petalsafe/petalsafe-backend/internal/api/recovery"
	"github.com/petalsafe/petalsafe-backend/internal/config"
	"github.com/petalsafe/petalsafe-backend/internal/services"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// NewRouter wires the domain services onto the HTTP surface.
func NewRouter(st store.Store, dispatcher alert.Dispatcher, cfg *config.Config, log zerolog.Logger, isHealthy func() bool) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	accountSvc := services.NewAccountService(st)
	authSvc := services.NewAuthService(st, []byte(cfg.JWTSecret), cfg.TokenValidity())
	safetySvc := services.NewSafetyService(st, dispatcher, cfg.DispatchTimeout(), log)
	journalSvc := services.NewJournalService(st)
	vaultSvc := services.NewVaultService(st)
	guardianSvc := services.NewGuardianService(st, log)

	// Handlers
	healthHandler := NewHealthHandler(isHealthy)
	authHandler := NewAuthHandler(accountSvc, authSvc)
	safetyHandler := NewSafetyHandler(safetySvc)
	journalHandler := NewJournalHandler(journalSvc)
	vaultHandler := NewVaultHandler(vaultSvc, authSvc)
	guardianHandler := NewGuardianHandler(guardianSvc)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Auth and account endpoints
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/accounts/{accountId}", authHandler.GetAccount).Methods("GET")

	// Safety monitor endpoints
	router.HandleFunc("/api/safety/checkin/{accountId}", safetyHandler.CheckIn).Methods("POST")
	router.HandleFunc("/api/safety/status/{accountId}", safetyHandler.Status).Methods("GET")

	// Journal endpoints
	router.HandleFunc("/api/journal", journalHandler.Log).Methods("POST")
	router.HandleFunc("/api/journal/{accountId}", journalHandler.List).Methods("GET")

	// Vault endpoints (bearer token required)
	router.HandleFunc("/api/vault/{accountId}/items", vaultHandler.AddItem).Methods("POST")
	router.HandleFunc("/api/vault/{accountId}/items", vaultHandler.ListItems).Methods("GET")

	// Guardian endpoints
	router.HandleFunc("/api/guardian/connect", guardianHandler.Connect).Methods("POST")
	router.HandleFunc("/api/guardian/{guardianId}/users", guardianHandler.WatchedUsers).Methods("GET")

	return router
}
