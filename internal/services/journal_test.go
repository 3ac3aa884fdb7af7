package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/risk"
)

func TestJournalLog_BenignEntry(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	svc := NewJournalService(st)

	entry, err := svc.Log(context.Background(), acct.AccountID, "had pancakes for breakfast")
	require.NoError(t, err)
	require.NotEmpty(t, entry.EntryID)
	require.Equal(t, 1, entry.RiskScore)
	require.Empty(t, entry.DetectedThreats)

	stored, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, model.RiskGreen, stored.RiskLevel)
}

func TestJournalLog_DistressEntryEscalates(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	svc := NewJournalService(st)

	entry, err := svc.Log(context.Background(), acct.AccountID, "I am scared and need help")
	require.NoError(t, err)
	require.Equal(t, risk.MaxScore, entry.RiskScore)
	require.NotEmpty(t, entry.DetectedThreats)

	stored, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, model.RiskRed, stored.RiskLevel)
}

func TestJournalLog_CalmEntryDoesNotLowerLevel(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	_, err := st.Accounts().Update(context.Background(), acct.AccountID, func(a *model.Account) error {
		a.RiskLevel = model.RiskRed
		return nil
	})
	require.NoError(t, err)

	svc := NewJournalService(st)
	_, err = svc.Log(context.Background(), acct.AccountID, "a quiet, ordinary day")
	require.NoError(t, err)

	stored, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, model.RiskRed, stored.RiskLevel)
}

func TestJournalList_PreservesOrder(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	svc := NewJournalService(st)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Log(context.Background(), acct.AccountID, text)
		require.NoError(t, err)
	}

	entries, err := svc.List(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "first", entries[0].Text)
	require.Equal(t, "third", entries[2].Text)
}

func TestJournalLog_Validation(t *testing.T) {
	svc := NewJournalService(newMemStore())

	_, err := svc.Log(context.Background(), "", "text")
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Log(context.Background(), "some-id", "   ")
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Log(context.Background(), "missing", "text")
	require.ErrorIs(t, err, model.ErrNotFound)
}
