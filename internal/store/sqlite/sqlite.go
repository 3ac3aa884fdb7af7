package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petalsafe/petalsafe-backend/internal/model"
	"github.com/petalsafe/petalsafe-backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    account_id            TEXT PRIMARY KEY,
    username              TEXT NOT NULL UNIQUE,
    role                  TEXT NOT NULL,
    guardian_email        TEXT NOT NULL DEFAULT '',
    guardian_id           TEXT,
    normal_pin_hash       BLOB NOT NULL,
    disguise_pin_hash     BLOB NOT NULL,
    duress_pin_hash       BLOB NOT NULL,
    pin_salt              BLOB NOT NULL,
    last_activity_at      TIMESTAMP NOT NULL,
    silenced              INTEGER NOT NULL DEFAULT 0,
    guardian_alerted      INTEGER NOT NULL DEFAULT 0,
    risk_level            TEXT NOT NULL DEFAULT 'GREEN',
    journal_entries       TEXT NOT NULL DEFAULT '[]',
    vault_items           TEXT NOT NULL DEFAULT '[]',
    connected_account_ids TEXT NOT NULL DEFAULT '[]',
    creation_time         TIMESTAMP NOT NULL
);
`

// New opens (or creates) a SQLite-backed store at the given path.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires a store over an existing connection and ensures the schema
// exists. Used by tests and the storage factory.
func NewWithDB(db *sql.DB) (store.Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Accounts() store.Accounts { return &accounts{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying connection (local tooling only).
func (s *sqliteStore) DB() *sql.DB { return s.db }

type accounts struct{ db *sql.DB }

const accountColumns = `account_id, username, role, guardian_email, guardian_id,
    normal_pin_hash, disguise_pin_hash, duress_pin_hash, pin_salt,
    last_activity_at, silenced, guardian_alerted, risk_level,
    journal_entries, vault_items, connected_account_ids, creation_time`

func (a *accounts) Create(ctx context.Context, m *model.Account) (*model.Account, error) {
	out := *m
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

	journals, items, connected, err := marshalSequences(&out)
	if err != nil {
		return nil, err
	}

	_, err = a.db.ExecContext(ctx, `INSERT INTO accounts (`+accountColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		out.AccountID, out.Username, string(out.Role), out.GuardianEmail, out.GuardianID,
		out.NormalPINHash, out.DisguisePINHash, out.DuressPINHash, out.PINSalt,
		out.LastActivityAt, out.Silenced, out.GuardianAlerted, string(out.RiskLevel),
		journals, items, connected, out.CreationTime)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("account %q: %w", out.Username, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (a *accounts) Get(ctx context.Context, accountID string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
	return scanAccount(row)
}

func (a *accounts) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

// Update applies mutate inside a write transaction. The connection opens
// transactions with the write lock held (_txlock=immediate) and a busy
// timeout, so concurrent read-modify-writes queue on the lock instead of
// failing, and each one sees the previous writer's committed state.
func (a *accounts) Update(ctx context.Context, accountID string, mutate func(*model.Account) error) (*model.Account, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
	acct, err := scanAccount(row)
	if err != nil {
		return nil, err
	}

	if err := mutate(acct); err != nil {
		return nil, err
	}

	journals, items, connected, err := marshalSequences(acct)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `UPDATE accounts SET
        guardian_email = ?, guardian_id = ?,
        last_activity_at = ?, silenced = ?, guardian_alerted = ?, risk_level = ?,
        journal_entries = ?, vault_items = ?, connected_account_ids = ?
        WHERE account_id = ?`,
		acct.GuardianEmail, acct.GuardianID,
		acct.LastActivityAt, acct.Silenced, acct.GuardianAlerted, string(acct.RiskLevel),
		journals, items, connected, accountID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return acct, nil
}

func marshalSequences(m *model.Account) (journals, items, connected string, err error) {
	jb, err := json.Marshal(orEmpty(m.JournalEntries))
	if err != nil {
		return "", "", "", err
	}
	vb, err := json.Marshal(orEmptyItems(m.VaultItems))
	if err != nil {
		return "", "", "", err
	}
	cb, err := json.Marshal(orEmptyIDs(m.ConnectedAccountIDs))
	if err != nil {
		return "", "", "", err
	}
	return string(jb), string(vb), string(cb), nil
}

func orEmpty(v []model.JournalEntry) []model.JournalEntry {
	if v == nil {
		return []model.JournalEntry{}
	}
	return v
}

func orEmptyItems(v []model.VaultItem) []model.VaultItem {
	if v == nil {
		return []model.VaultItem{}
	}
	return v
}

func orEmptyIDs(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

type rowScanner interface{ Scan(dest ...any) error }

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		out                        model.Account
		role, level                string
		journals, items, connected string
	)
	err := row.Scan(&out.AccountID, &out.Username, &role, &out.GuardianEmail, &out.GuardianID,
		&out.NormalPINHash, &out.DisguisePINHash, &out.DuressPINHash, &out.PINSalt,
		&out.LastActivityAt, &out.Silenced, &out.GuardianAlerted, &level,
		&journals, &items, &connected, &out.CreationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.Role = model.Role(role)
	out.RiskLevel = model.RiskLevel(level)
	if err := json.Unmarshal([]byte(journals), &out.JournalEntries); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &out.VaultItems); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(connected), &out.ConnectedAccountIDs); err != nil {
		return nil, err
	}
	return &out, nil
}
