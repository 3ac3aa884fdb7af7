package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petalsafe/petalsafe-backend/internal/auth"
	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

// --- In-memory store fake ---

type memStore struct {
	mu      sync.Mutex
	byID    map[string]*model.Account
	failAll error // when set, every operation fails with this error
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*model.Account)}
}

func (m *memStore) Accounts() store.Accounts { return &memAccounts{s: m} }

type memAccounts struct{ s *memStore }

func cloneAccount(a *model.Account) *model.Account {
	out := *a
	out.JournalEntries = append([]model.JournalEntry(nil), a.JournalEntries...)
	out.VaultItems = append([]model.VaultItem(nil), a.VaultItems...)
	out.ConnectedAccountIDs = append([]string(nil), a.ConnectedAccountIDs...)
	return &out
}

func (m *memAccounts) Create(_ context.Context, a *model.Account) (*model.Account, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failAll != nil {
		return nil, m.s.failAll
	}
	for _, existing := range m.s.byID {
		if existing.Username == a.Username {
			return nil, fmt.Errorf("account %q: %w", a.Username, model.ErrConflict)
		}
	}
	out := cloneAccount(a)
	if out.AccountID == "" {
		out.AccountID = uuid.New().String()
	}
	now := time.Now().UTC()
	if out.CreationTime.IsZero() {
		out.CreationTime = now
	}
	if out.LastActivityAt.IsZero() {
		out.LastActivityAt = now
	}
	if out.RiskLevel == "" {
		out.RiskLevel = model.RiskGreen
	}
	m.s.byID[out.AccountID] = out
	return cloneAccount(out), nil
}

func (m *memAccounts) Get(_ context.Context, accountID string) (*model.Account, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failAll != nil {
		return nil, m.s.failAll
	}
	a, ok := m.s.byID[accountID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (m *memAccounts) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failAll != nil {
		return nil, m.s.failAll
	}
	for _, a := range m.s.byID {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *memAccounts) Update(_ context.Context, accountID string, mutate func(*model.Account) error) (*model.Account, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failAll != nil {
		return nil, m.s.failAll
	}
	a, ok := m.s.byID[accountID]
	if !ok {
		return nil, model.ErrNotFound
	}
	working := cloneAccount(a)
	if err := mutate(working); err != nil {
		return nil, err
	}
	m.s.byID[accountID] = working
	return cloneAccount(working), nil
}

// --- Dispatcher fake ---

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []struct {
		accountID string
		level     model.RiskLevel
	}
	err error
}

func (f *fakeDispatcher) Notify(_ context.Context, accountID string, level model.RiskLevel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, struct {
		accountID string
		level     model.RiskLevel
	}{accountID, level})
	return nil
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// --- Seeding helpers ---

const (
	testNormalPIN   = "4321"
	testDisguisePIN = "1111"
	testDuressPIN   = "8888"
)

func seedAccount(t *testing.T, st store.Store, username string) *model.Account {
	t.Helper()
	salt, err := auth.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	acct, err := st.Accounts().Create(context.Background(), &model.Account{
		Username:        username,
		Role:            model.RoleUser,
		GuardianEmail:   username + "@guardians.test",
		NormalPINHash:   auth.HashPIN(testNormalPIN, salt),
		DisguisePINHash: auth.HashPIN(testDisguisePIN, salt),
		DuressPINHash:   auth.HashPIN(testDuressPIN, salt),
		PINSalt:         salt,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acct
}

func setLastActivity(t *testing.T, st store.Store, accountID string, when time.Time) {
	t.Helper()
	if _, err := st.Accounts().Update(context.Background(), accountID, func(a *model.Account) error {
		a.LastActivityAt = when
		return nil
	}); err != nil {
		t.Fatalf("set last activity: %v", err)
	}
}
