package services

import (
	"context"
	"fmt"
	"time"

	"github.com/petalsafe/petalsafe-backend/internal/auth"
	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// LoginResult is what a PIN submission resolves to. Only a granted login
// carries account details and a session token; the other outcomes stay
// deliberately empty so nothing upstream can leak them.
type LoginResult struct {
	Outcome   model.Outcome
	AccountID string
	Username  string
	RiskLevel model.RiskLevel
	Token     string
}

// AuthService is the gatekeeper: it resolves a submitted PIN against the
// three stored codes in a single ordered match, duress first.
type AuthService struct {
	store         store.Store
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewAuthService(s store.Store, jwtSecret []byte, tokenValidity time.Duration) *AuthService {
	return &AuthService{store: s, jwtSecret: jwtSecret, tokenValidity: tokenValidity}
}

// Authenticate dispatches a PIN submission. All mutations are persisted
// before the outcome is returned; a store failure surfaces as an error,
// never as a silently successful outcome.
func (s *AuthService) Authenticate(ctx context.Context, accountID, pin string) (*LoginResult, error) {
	if accountID == "" || pin == "" {
		return nil, fmt.Errorf("accountId and pin are required: %w", model.ErrValidation)
	}

	acct, err := s.store.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// All three digests are always compared so the outcome is not
	// observable through timing.
	isDuress := auth.VerifyPIN(pin, acct.PINSalt, acct.DuressPINHash)
	isDisguise := auth.VerifyPIN(pin, acct.PINSalt, acct.DisguisePINHash)
	isNormal := auth.VerifyPIN(pin, acct.PINSalt, acct.NormalPINHash)

	switch {
	case isDuress:
		// One-touch irreversible wipe. The whole point is zero friction
		// under coercion: no confirmation, and never an automatic retry.
		// A partially applied wipe surfaces as an error instead.
		if _, err := s.store.Accounts().Update(ctx, accountID, func(a *model.Account) error {
			a.JournalEntries = nil
			a.VaultItems = nil
			a.GuardianAlerted = false
			return nil
		}); err != nil {
			return nil, err
		}
		return &LoginResult{Outcome: model.OutcomeDuress}, nil

	case isDisguise:
		// No mutation. The caller renders the same innocuous error it
		// renders for a rejected PIN.
		return &LoginResult{Outcome: model.OutcomeDisguise}, nil

	case isNormal:
		updated, err := s.store.Accounts().Update(ctx, accountID, func(a *model.Account) error {
			a.LastActivityAt = time.Now().UTC()
			a.Silenced = false
			a.GuardianAlerted = false // a granted login ends the silence episode
			return nil
		})
		if err != nil {
			return nil, err
		}
		token, err := auth.GenerateToken(updated.AccountID, s.jwtSecret, s.tokenValidity)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			Outcome:   model.OutcomeGranted,
			AccountID: updated.AccountID,
			Username:  updated.Username,
			RiskLevel: updated.RiskLevel,
			Token:     token,
		}, nil

	default:
		return &LoginResult{Outcome: model.OutcomeRejected}, nil
	}
}

// VerifyToken resolves a session token back to its account identifier.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	accountID, err := auth.AccountIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %s", model.ErrUnauthorized, err)
	}
	return accountID, nil
}
