package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

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
    normal_pin_hash       BYTEA NOT NULL,
    disguise_pin_hash     BYTEA NOT NULL,
    duress_pin_hash       BYTEA NOT NULL,
    pin_salt              BYTEA NOT NULL,
    last_activity_at      TIMESTAMPTZ NOT NULL,
    silenced              BOOLEAN NOT NULL DEFAULT FALSE,
    guardian_alerted      BOOLEAN NOT NULL DEFAULT FALSE,
    risk_level            TEXT NOT NULL DEFAULT 'GREEN',
    journal_entries       JSONB NOT NULL DEFAULT '[]',
    vault_items           JSONB NOT NULL DEFAULT '[]',
    connected_account_ids JSONB NOT NULL DEFAULT '[]',
    creation_time         TIMESTAMPTZ NOT NULL
);
`

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a connection and ensures the schema exists.
func New(ctx context.Context, dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &pgStore{db: db}, nil
}

// NewWithDB constructs a store backed by an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Accounts() store.Accounts { return &accounts{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

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
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		out.AccountID, out.Username, string(out.Role), out.GuardianEmail, out.GuardianID,
		out.NormalPINHash, out.DisguisePINHash, out.DuressPINHash, out.PINSalt,
		out.LastActivityAt, out.Silenced, out.GuardianAlerted, string(out.RiskLevel),
		journals, items, connected, out.CreationTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("account %q: %w", out.Username, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (a *accounts) Get(ctx context.Context, accountID string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id=$1`, accountID)
	return scanAccount(row)
}

func (a *accounts) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username=$1`, username)
	return scanAccount(row)
}

// Update applies mutate under SELECT ... FOR UPDATE so concurrent
// check-then-act operations on the same account serialize.
func (a *accounts) Update(ctx context.Context, accountID string, mutate func(*model.Account) error) (*model.Account, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id=$1 FOR UPDATE`, accountID)
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
        guardian_email=$1, guardian_id=$2,
        last_activity_at=$3, silenced=$4, guardian_alerted=$5, risk_level=$6,
        journal_entries=$7, vault_items=$8, connected_account_ids=$9
        WHERE account_id=$10`,
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

func marshalSequences(m *model.Account) (journals, items, connected []byte, err error) {
	if journals, err = json.Marshal(emptyIfNilJournal(m.JournalEntries)); err != nil {
		return nil, nil, nil, err
	}
	if items, err = json.Marshal(emptyIfNilItems(m.VaultItems)); err != nil {
		return nil, nil, nil, err
	}
	if connected, err = json.Marshal(emptyIfNilIDs(m.ConnectedAccountIDs)); err != nil {
		return nil, nil, nil, err
	}
	return journals, items, connected, nil
}

func emptyIfNilJournal(v []model.JournalEntry) []model.JournalEntry {
	if v == nil {
		return []model.JournalEntry{}
	}
	return v
}

func emptyIfNilItems(v []model.VaultItem) []model.VaultItem {
	if v == nil {
		return []model.VaultItem{}
	}
	return v
}

func emptyIfNilIDs(v []string) []string {
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
		journals, items, connected []byte
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
	if err := json.Unmarshal(journals, &out.JournalEntries); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &out.VaultItems); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(connected, &out.ConnectedAccountIDs); err != nil {
		return nil, err
	}
	return &out, nil
}
