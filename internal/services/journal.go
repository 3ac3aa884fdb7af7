package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/risk"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// JournalService appends scored journal entries and escalates account risk
// from their content. Escalation is monotonic: a calm entry never lowers a
// level the silence monitor or an earlier entry raised.
type JournalService struct {
	store store.Store
}

func NewJournalService(s store.Store) *JournalService { return &JournalService{store: s} }

func (s *JournalService) Log(ctx context.Context, accountID, text string) (*model.JournalEntry, error) {
	if accountID == "" || strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("accountId and entry text are required: %w", model.ErrValidation)
	}

	score, detected := risk.ScanEntry(text)
	entry := model.JournalEntry{
		EntryID:         uuid.New().String(),
		Text:            text,
		RiskScore:       score,
		DetectedThreats: detected,
		CreationTime:    time.Now().UTC(),
	}

	_, err := s.store.Accounts().Update(ctx, accountID, func(a *model.Account) error {
		a.JournalEntries = append(a.JournalEntries, entry)
		a.RiskLevel = risk.MaxLevel(a.RiskLevel, risk.JournalLevel(score))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *JournalService) List(ctx context.Context, accountID string) ([]model.JournalEntry, error) {
	acct, err := s.store.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acct.JournalEntries, nil
}
