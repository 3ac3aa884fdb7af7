package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// GuardianService maintains the guardian-to-user connections and the
// guardian's watch list.
type GuardianService struct {
	store store.Store
	log   zerolog.Logger
}

func NewGuardianService(s store.Store, log zerolog.Logger) *GuardianService {
	return &GuardianService{store: s, log: log}
}

// Connect links a user to a guardian looked up by username.
func (s *GuardianService) Connect(ctx context.Context, accountID, guardianUsername string) (*model.Account, error) {
	if accountID == "" || guardianUsername == "" {
		return nil, fmt.Errorf("accountId and guardianUsername are required: %w", model.ErrValidation)
	}

	guardian, err := s.store.Accounts().GetByUsername(ctx, guardianUsername)
	if err != nil {
		return nil, err
	}
	if guardian.Role != model.RoleGuardian {
		return nil, fmt.Errorf("account %q is not a guardian: %w", guardianUsername, model.ErrNotFound)
	}
	if _, err := s.store.Accounts().Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.store.Accounts().Update(ctx, guardian.AccountID, func(g *model.Account) error {
		for _, id := range g.ConnectedAccountIDs {
			if id == accountID {
				return fmt.Errorf("already connected to this guardian: %w", model.ErrConflict)
			}
		}
		g.ConnectedAccountIDs = append(g.ConnectedAccountIDs, accountID)
		return nil
	})
}

// WatchedAccounts returns summaries of the users a guardian watches.
// Non-guardian accounts may not read anyone's risk state.
func (s *GuardianService) WatchedAccounts(ctx context.Context, guardianID string) (*model.Account, []model.AccountSummary, error) {
	guardian, err := s.store.Accounts().Get(ctx, guardianID)
	if err != nil {
		return nil, nil, err
	}
	if guardian.Role != model.RoleGuardian {
		return nil, nil, fmt.Errorf("account is not a guardian: %w", model.ErrUnauthorized)
	}

	summaries := make([]model.AccountSummary, 0, len(guardian.ConnectedAccountIDs))
	for _, id := range guardian.ConnectedAccountIDs {
		acct, err := s.store.Accounts().Get(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				s.log.Warn().Str("account_id", id).Msg("watched account no longer exists")
				continue
			}
			return nil, nil, err
		}
		summaries = append(summaries, model.AccountSummary{
			AccountID:      acct.AccountID,
			Username:       acct.Username,
			RiskLevel:      acct.RiskLevel,
			LastActivityAt: acct.LastActivityAt,
		})
	}
	return guardian, summaries, nil
}
