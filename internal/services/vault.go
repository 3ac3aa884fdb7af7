package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// VaultService manages the evidence vault metadata. The sequence is
// append-only until a duress wipe clears it wholesale.
type VaultService struct {
	store store.Store
}

func NewVaultService(s store.Store) *VaultService { return &VaultService{store: s} }

func (s *VaultService) AddItem(ctx context.Context, accountID string, item model.VaultItem) (*model.VaultItem, error) {
	if accountID == "" {
		return nil, fmt.Errorf("accountId is required: %w", model.ErrValidation)
	}
	if item.Note == "" && item.CoverImageURL == "" && item.RealImageURL == "" {
		return nil, fmt.Errorf("vault item must carry a note or an image reference: %w", model.ErrValidation)
	}

	item.ItemID = uuid.New().String()
	item.CreationTime = time.Now().UTC()

	_, err := s.store.Accounts().Update(ctx, accountID, func(a *model.Account) error {
		a.VaultItems = append(a.VaultItems, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *VaultService) ListItems(ctx context.Context, accountID string) ([]model.VaultItem, error) {
	acct, err := s.store.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acct.VaultItems, nil
}
