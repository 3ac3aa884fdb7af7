package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

func newSafetyService(st *memStore, d *fakeDispatcher) *SafetyService {
	return NewSafetyService(st, d, time.Second, zerolog.Nop())
}

func TestCheckStatus_SilenceTiers(t *testing.T) {
	cases := []struct {
		name    string
		silence time.Duration
		want    model.RiskLevel
	}{
		{"recent activity", 10 * time.Minute, model.RiskGreen},
		{"seven hours", 7 * time.Hour, model.RiskYellow},
		{"thirteen hours", 13 * time.Hour, model.RiskRed},
		{"twenty-five hours", 25 * time.Hour, model.RiskBlack},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newMemStore()
			acct := seedAccount(t, st, "alice")
			setLastActivity(t, st, acct.AccountID, time.Now().UTC().Add(-tc.silence))

			svc := newSafetyService(st, &fakeDispatcher{})
			report, err := svc.CheckStatus(context.Background(), acct.AccountID)
			require.NoError(t, err)
			require.Equal(t, tc.want, report.RiskLevel)
			require.Equal(t, tc.silence == 25*time.Hour, report.Silenced)
		})
	}
}

func TestCheckStatus_AlertSentExactlyOnce(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	setLastActivity(t, st, acct.AccountID, time.Now().UTC().Add(-25*time.Hour))

	dispatcher := &fakeDispatcher{}
	svc := newSafetyService(st, dispatcher)

	first, err := svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, model.RiskBlack, first.RiskLevel)
	require.True(t, first.Silenced)
	require.True(t, first.AlertJustSent)
	require.Equal(t, 1, dispatcher.callCount())
	require.Equal(t, acct.AccountID, dispatcher.calls[0].accountID)
	require.Equal(t, model.RiskBlack, dispatcher.calls[0].level)

	// Same episode, polled again: no second alert.
	second, err := svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, model.RiskBlack, second.RiskLevel)
	require.False(t, second.AlertJustSent)
	require.Equal(t, 1, dispatcher.callCount())
}

func TestCheckStatus_DispatchFailureKeepsLatchClear(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	setLastActivity(t, st, acct.AccountID, time.Now().UTC().Add(-25*time.Hour))

	dispatcher := &fakeDispatcher{err: errors.New("webhook down")}
	svc := newSafetyService(st, dispatcher)

	report, err := svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err, "delivery failure must not fail the status call")
	require.Equal(t, model.RiskBlack, report.RiskLevel)
	require.False(t, report.AlertJustSent)
	require.True(t, report.DispatchDegraded)

	stored, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.False(t, stored.GuardianAlerted)

	// Dispatcher recovers: the next poll delivers the alert.
	dispatcher.err = nil
	report, err = svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.True(t, report.AlertJustSent)
	require.False(t, report.DispatchDegraded)
	require.Equal(t, 1, dispatcher.callCount())
}

func TestCheckStatus_EscalationIsMonotonic(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	_, err := st.Accounts().Update(context.Background(), acct.AccountID, func(a *model.Account) error {
		a.RiskLevel = model.RiskRed // raised earlier by journal content
		a.LastActivityAt = time.Now().UTC()
		return nil
	})
	require.NoError(t, err)

	svc := newSafetyService(st, &fakeDispatcher{})
	report, err := svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, model.RiskRed, report.RiskLevel, "fresh activity must not lower a journal-raised level")
}

func TestCheckIn_ResetsEpisode(t *testing.T) {
	st := newMemStore()
	acct := seedAccount(t, st, "alice")
	setLastActivity(t, st, acct.AccountID, time.Now().UTC().Add(-25*time.Hour))

	dispatcher := &fakeDispatcher{}
	svc := newSafetyService(st, dispatcher)

	_, err := svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.Equal(t, 1, dispatcher.callCount())

	when, err := svc.CheckIn(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), when, 2*time.Second)

	stored, err := st.Accounts().Get(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.False(t, stored.Silenced)
	require.False(t, stored.GuardianAlerted)

	// A fresh critical silence is a new episode and alerts again.
	setLastActivity(t, st, acct.AccountID, time.Now().UTC().Add(-25*time.Hour))
	report, err := svc.CheckStatus(context.Background(), acct.AccountID)
	require.NoError(t, err)
	require.True(t, report.AlertJustSent)
	require.Equal(t, 2, dispatcher.callCount())
}

func TestCheckStatus_UnknownAccount(t *testing.T) {
	svc := newSafetyService(newMemStore(), &fakeDispatcher{})
	_, err := svc.CheckStatus(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}
