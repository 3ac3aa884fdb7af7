package store

import (
	"context"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Accounts() Accounts
}

// Accounts owns the single account-per-user record. Update is the atomic
// read-modify-write primitive every check-then-act operation goes through:
// the guardian-alert dedup and the duress wipe must not interleave with a
// concurrent journal append.
type Accounts interface {
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
	Get(ctx context.Context, accountID string) (*model.Account, error)
	GetByUsername(ctx context.Context, username string) (*model.Account, error)

	// Update loads the record, applies mutate under an exclusive row lock,
	// and persists the result. An error from mutate aborts the write and is
	// returned unchanged. The returned account reflects the persisted state.
	Update(ctx context.Context, accountID string, mutate func(*model.Account) error) (*model.Account, error)
}
