package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/petalsafe/petalsafe-backend/internal/alert"
	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/risk"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// SafetyService recomputes risk from silence on every status query and owns
// the one-alert-per-episode guarantee.
type SafetyService struct {
	store           store.Store
	dispatcher      alert.Dispatcher
	dispatchTimeout time.Duration
	log             zerolog.Logger
}

func NewSafetyService(s store.Store, d alert.Dispatcher, dispatchTimeout time.Duration, log zerolog.Logger) *SafetyService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 5 * time.Second
	}
	return &SafetyService{store: s, dispatcher: d, dispatchTimeout: dispatchTimeout, log: log}
}

// CheckStatus classifies the account's current silence and, when the
// critical-silence tier is reached for the first time in the episode,
// dispatches the guardian alert. The whole check-then-act runs inside the
// store's row-level update so two concurrent polls cannot both dispatch:
// the latch is read, the alert confirmed, and the latch written under one
// lock. The alert flag is only ever set after confirmed delivery.
func (s *SafetyService) CheckStatus(ctx context.Context, accountID string) (*model.StatusReport, error) {
	now := time.Now().UTC()

	var report model.StatusReport
	_, err := s.store.Accounts().Update(ctx, accountID, func(a *model.Account) error {
		silence := now.Sub(a.LastActivityAt)
		fromSilence := risk.ClassifySilence(silence)
		a.RiskLevel = risk.MaxLevel(a.RiskLevel, fromSilence)

		report = model.StatusReport{
			AccountID:      a.AccountID,
			Username:       a.Username,
			MinutesSilent:  int64(silence / time.Minute),
			LastActivityAt: a.LastActivityAt,
		}

		if fromSilence == model.RiskBlack {
			a.Silenced = true
			if !a.GuardianAlerted {
				dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
				err := s.dispatcher.Notify(dctx, a.AccountID, a.RiskLevel)
				cancel()
				if err != nil {
					// Temporary failure, not "alert not needed": the status
					// call still succeeds, the latch stays clear, and the
					// next poll retries delivery.
					s.log.Error().Stack().Err(err).
						Str("account_id", a.AccountID).
						Msg("guardian alert dispatch failed")
					report.DispatchDegraded = true
				} else {
					a.GuardianAlerted = true
					report.AlertJustSent = true
				}
			}
		}

		report.RiskLevel = a.RiskLevel
		report.Silenced = a.Silenced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// CheckIn resets the silence clock and closes the current episode, so a
// later silence can trigger a fresh guardian alert.
func (s *SafetyService) CheckIn(ctx context.Context, accountID string) (time.Time, error) {
	updated, err := s.store.Accounts().Update(ctx, accountID, func(a *model.Account) error {
		a.LastActivityAt = time.Now().UTC()
		a.Silenced = false
		a.GuardianAlerted = false
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return updated.LastActivityAt, nil
}
