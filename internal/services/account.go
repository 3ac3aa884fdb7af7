package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/petalsafe/petalsafe-backend/internal/auth"
	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// Default PINs applied when registration omits them. They satisfy the
// pairwise-distinct rule; a submitted set that does not is rejected.
const (
	defaultNormalPIN   = "9999"
	defaultDisguisePIN = "1234"
	defaultDuressPIN   = "0000"
)

// RegisterRequest is the one-time device-binding setup. The returned
// account identifier is the only credential the client holds besides the
// PINs; there is no server-side session table, and losing the binding
// means losing access.
type RegisterRequest struct {
	Username      string
	Role          model.Role
	GuardianEmail string
	GuardianID    string
	NormalPIN     string
	DisguisePIN   string
	DuressPIN     string
}

// AccountService handles registration and account reads.
type AccountService struct {
	store store.Store
}

func NewAccountService(s store.Store) *AccountService { return &AccountService{store: s} }

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*model.Account, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters: %w", model.ErrValidation)
	}
	if req.Role != model.RoleUser && req.Role != model.RoleGuardian {
		return nil, fmt.Errorf("role must be USER or GUARDIAN: %w", model.ErrValidation)
	}

	guardianEmail := strings.TrimSpace(strings.ToLower(req.GuardianEmail))
	guardianID := strings.TrimSpace(req.GuardianID)
	if req.Role == model.RoleUser && guardianEmail == "" && guardianID == "" {
		return nil, fmt.Errorf("guardian email or guardian id is required for USER role: %w", model.ErrValidation)
	}
	var guardianRef *string
	if guardianID != "" {
		guardian, err := s.store.Accounts().Get(ctx, guardianID)
		if err != nil {
			return nil, err
		}
		if guardian.Role != model.RoleGuardian {
			return nil, fmt.Errorf("account %s is not a guardian: %w", guardianID, model.ErrValidation)
		}
		guardianRef = &guardian.AccountID
	}

	normal := defaultString(req.NormalPIN, defaultNormalPIN)
	disguise := defaultString(req.DisguisePIN, defaultDisguisePIN)
	duress := defaultString(req.DuressPIN, defaultDuressPIN)
	// The three codes route to different outcomes; identical codes would
	// make the dispatch ambiguous, so registration refuses them outright.
	if normal == disguise || normal == duress || disguise == duress {
		return nil, fmt.Errorf("the three PINs must be pairwise distinct: %w", model.ErrValidation)
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return nil, err
	}

	acct := &model.Account{
		Username:        username,
		Role:            req.Role,
		GuardianEmail:   guardianEmail,
		GuardianID:      guardianRef,
		NormalPINHash:   auth.HashPIN(normal, salt),
		DisguisePINHash: auth.HashPIN(disguise, salt),
		DuressPINHash:   auth.HashPIN(duress, salt),
		PINSalt:         salt,
		RiskLevel:       model.RiskGreen,
	}
	return s.store.Accounts().Create(ctx, acct)
}

func (s *AccountService) Get(ctx context.Context, accountID string) (*model.Account, error) {
	return s.store.Accounts().Get(ctx, accountID)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
