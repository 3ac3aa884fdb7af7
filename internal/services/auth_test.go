package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

var testJWTSecret = []byte("unit-test-secret")

func TestAuthenticate_NormalPIN(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	setLastActivity(t, st, acct.AccountID, time.Now().UTC().Add(-30*time.Hour))

	svc := NewAuthService(st, testJWTSecret, time.Hour)
	res, err := svc.Authenticate(context.Background(), acct.AccountID, testNormalPIN)
	require.NoError(t, err)

	require.Equal(t, model.OutcomeGranted, res.Outcome)
	require.Equal(t, acct.AccountID, res.AccountID)
	require.Equal(t, "alice", res.Username)
	require.NotEmpty(t, res.Token)

	verifiedID, err := svc.VerifyToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, acct.AccountID, verifiedID)

	// A granted login counts as proof of life and closes the episode.
	stored, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.False(t, stored.Silenced)
	require.False(t, stored.GuardianAlerted)
	require.WithinDuration(t, time.Now().UTC(), stored.LastActivityAt, 2*time.Second)
}

func TestAuthenticate_DisguisePIN(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	before, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)

	svc := NewAuthService(st, testJWTSecret, time.Hour)
	res, err := svc.Authenticate(context.Background(), acct.AccountID, testDisguisePIN)
	require.NoError(t, err)

	require.Equal(t, model.OutcomeDisguise, res.Outcome)
	require.Empty(t, res.Token)
	require.Empty(t, res.AccountID)

	// Disguise leaves no trace at all, not even an activity bump.
	after, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, before.LastActivityAt, after.LastActivityAt)
}

func TestAuthenticate_DuressPINWipes(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	_, err := st.Accounts().Update(context.Background(), acct.AccountID, func(a *model.Account) error {
		a.JournalEntries = []model.JournalEntry{{EntryID: "e1", Text: "entry"}}
		a.VaultItems = []model.VaultItem{{ItemID: "v1", Note: "evidence"}}
		a.GuardianAlerted = true
		a.RiskLevel = model.RiskRed
		return nil
	})
	require.NoError(t, err)

	svc := NewAuthService(st, testJWTSecret, time.Hour)
	res, err := svc.Authenticate(context.Background(), acct.AccountID, testDuressPIN)
	require.NoError(t, err)
	require.Equal(t, model.OutcomeDuress, res.Outcome)
	require.Empty(t, res.Token)

	after, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Empty(t, after.JournalEntries)
	require.Empty(t, after.VaultItems)
	require.False(t, after.GuardianAlerted)
	// The account itself survives so the app keeps opening normally.
	require.Equal(t, "alice", after.Username)
	require.NotEmpty(t, after.NormalPINHash)
}

func TestAuthenticate_DuressPersistFailureSurfaces(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	boom := errors.New("disk on fire")
	st.failAll = boom

	svc := NewAuthService(st, testJWTSecret, time.Hour)
	_, err := svc.Authenticate(context.Background(), acct.AccountID, testDuressPIN)
	require.Error(t, err)
}

func TestAuthenticate_UnknownPINRejected(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")

	svc := NewAuthService(st, testJWTSecret, time.Hour)
	res, err := svc.Authenticate(context.Background(), acct.AccountID, "5555")
	require.NoError(t, err)
	require.Equal(t, model.OutcomeRejected, res.Outcome)
	require.Empty(t, res.Token)
}

func TestAuthenticate_Validation(t *testing.T) {
	st := newMemStore()
	svc := NewAuthService(st, testJWTSecret, time.Hour)

	_, err := svc.Authenticate(context.Background(), "", "1234")
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Authenticate(context.Background(), "some-id", "")
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Authenticate(context.Background(), "missing-account", "1234")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestVerifyToken_Invalid(t *testing.T) {
	svc := NewAuthService(newMemStore(), testJWTSecret, time.Hour)
	_, err := svc.VerifyToken("not-a-token")
	require.ErrorIs(t, err, model.ErrUnauthorized)
}
