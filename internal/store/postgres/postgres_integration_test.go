package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/petalsafe/petalsafe-backend/internal/store"
	"github.com/petalsafe/petalsafe-backend/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("SAFETY_BACKEND_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SAFETY_BACKEND_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	s, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	return s
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
