package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

func newTestAccount(username string) *model.Account {
	return &model.Account{
		Username:        username,
		Role:            model.RoleUser,
		GuardianEmail:   username + "@guardians.test",
		NormalPINHash:   []byte{1, 2, 3},
		DisguisePINHash: []byte{4, 5, 6},
		DuressPINHash:   []byte{7, 8, 9},
		PINSalt:         []byte{0xa, 0xb},
	}
}

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	username := "u-" + uuid.New().String()[:8]

	// Create fills defaults
	created, err := s.Accounts().Create(ctx, newTestAccount(username))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.AccountID == "" || created.RiskLevel != model.RiskGreen || created.LastActivityAt.IsZero() {
		t.Fatalf("Create defaults not applied: %+v", created)
	}

	// Get / GetByUsername
	got, err := s.Accounts().Get(ctx, created.AccountID)
	if err != nil || got.Username != username {
		t.Fatalf("Get: got=%v err=%v", got, err)
	}
	if len(got.NormalPINHash) == 0 || len(got.PINSalt) == 0 {
		t.Fatalf("Get dropped PIN material: %+v", got)
	}
	if byName, err := s.Accounts().GetByUsername(ctx, username); err != nil || byName.AccountID != created.AccountID {
		t.Fatalf("GetByUsername: got=%v err=%v", byName, err)
	}

	// Unknown id maps to ErrNotFound
	if _, err := s.Accounts().Get(ctx, "missing-"+uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing: err=%v, want ErrNotFound", err)
	}

	// Duplicate username maps to ErrConflict
	if _, err := s.Accounts().Create(ctx, newTestAccount(username)); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate Create: err=%v, want ErrConflict", err)
	}

	// Update persists mutations atomically
	when := time.Now().UTC().Add(-8 * time.Hour).Truncate(time.Second)
	updated, err := s.Accounts().Update(ctx, created.AccountID, func(a *model.Account) error {
		a.LastActivityAt = when
		a.RiskLevel = model.RiskYellow
		a.Silenced = true
		a.JournalEntries = append(a.JournalEntries, model.JournalEntry{
			EntryID:      uuid.New().String(),
			Text:         "first entry",
			RiskScore:    1,
			CreationTime: time.Now().UTC(),
		})
		a.VaultItems = append(a.VaultItems, model.VaultItem{
			ItemID:       uuid.New().String(),
			Note:         "receipt",
			CreationTime: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Silenced || updated.RiskLevel != model.RiskYellow {
		t.Fatalf("Update result stale: %+v", updated)
	}

	reread, err := s.Accounts().Get(ctx, created.AccountID)
	if err != nil {
		t.Fatalf("Get after Update: %v", err)
	}
	if len(reread.JournalEntries) != 1 || len(reread.VaultItems) != 1 {
		t.Fatalf("sequences not persisted: journals=%d items=%d",
			len(reread.JournalEntries), len(reread.VaultItems))
	}
	if reread.JournalEntries[0].Text != "first entry" {
		t.Fatalf("journal text corrupted: %q", reread.JournalEntries[0].Text)
	}
	if !reread.Silenced || reread.RiskLevel != model.RiskYellow {
		t.Fatalf("flags not persisted: %+v", reread)
	}
	if reread.LastActivityAt.UTC().Sub(when).Abs() > time.Second {
		t.Fatalf("lastActivityAt drifted: got %v want %v", reread.LastActivityAt, when)
	}

	// A failing mutate aborts the write
	sentinel := errors.New("mutate failed")
	if _, err := s.Accounts().Update(ctx, created.AccountID, func(a *model.Account) error {
		a.JournalEntries = nil
		return sentinel
	}); !errors.Is(err, sentinel) {
		t.Fatalf("failed mutate: err=%v, want sentinel", err)
	}
	if after, _ := s.Accounts().Get(ctx, created.AccountID); len(after.JournalEntries) != 1 {
		t.Fatalf("aborted Update leaked a write: journals=%d", len(after.JournalEntries))
	}

	// Wipe semantics: clearing sequences persists as empty
	if _, err := s.Accounts().Update(ctx, created.AccountID, func(a *model.Account) error {
		a.JournalEntries = nil
		a.VaultItems = nil
		a.GuardianAlerted = false
		return nil
	}); err != nil {
		t.Fatalf("wipe Update: %v", err)
	}
	if wiped, _ := s.Accounts().Get(ctx, created.AccountID); len(wiped.JournalEntries) != 0 || len(wiped.VaultItems) != 0 {
		t.Fatalf("wipe did not clear sequences: %+v", wiped)
	}

	// Update on a missing account maps to ErrNotFound
	if _, err := s.Accounts().Update(ctx, "missing-"+uuid.New().String(), func(a *model.Account) error {
		return nil
	}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update missing: err=%v, want ErrNotFound", err)
	}

	// Concurrent writers on different accounts must all succeed. Writers
	// may serialize but a busy store is never allowed to surface an error
	// on an ordinary update.
	other, err := s.Accounts().Create(ctx, newTestAccount("u-"+uuid.New().String()[:8]))
	if err != nil {
		t.Fatalf("Create second account: %v", err)
	}
	const updatesPerWriter = 50
	var wg sync.WaitGroup
	errCh := make(chan error, 2*updatesPerWriter)
	for _, id := range []string{created.AccountID, other.AccountID} {
		wg.Add(1)
		go func(accountID string) {
			defer wg.Done()
			for i := 0; i < updatesPerWriter; i++ {
				if _, err := s.Accounts().Update(ctx, accountID, func(a *model.Account) error {
					a.LastActivityAt = time.Now().UTC()
					return nil
				}); err != nil {
					errCh <- err
				}
			}
		}(id)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent Update: %v", err)
	}
}
