// Package sqlite provides a SQLite-backed account store.
//
// Account records use compare-and-set on the version column, guardian sets
// live in a child table rewritten atomically with each update, and sealed
// receipts are archived in their own table keyed by CID.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"xdao.co/warden/account"
	"xdao.co/warden/identity"
	"xdao.co/warden/receipt"
	"xdao.co/warden/storage"
	"xdao.co/warden/storage/sqlite/migrations"
)

// Store persists account state and receipts in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var (
	_ storage.Store   = (*Store)(nil)
	_ receipt.Archive = (*ReceiptArchive)(nil)
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite account store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Create(st *account.State) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if st == nil {
		return fmt.Errorf("sqlite: nil state")
	}
	if err := st.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCorrupted, err)
	}

	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO accounts (
		   account, owner, pending_owner,
		   guardian_count, threshold, version,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID.String(),
		st.Owner.String(),
		pendingColumn(st.PendingOwner),
		st.Count,
		st.Threshold,
		st.Version,
		toMillis(st.CreatedAt),
		toMillis(st.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrExists
		}
		return fmt.Errorf("create account: %w", err)
	}

	if err := insertGuardians(tx, st); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

func (s *Store) Get(id identity.Identity) (*account.State, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRow(
		`SELECT owner, pending_owner, guardian_count, threshold, version, created_at, updated_at
		   FROM accounts
		  WHERE account = ?`,
		id.String(),
	)

	var (
		ownerHex   string
		pendingHex string
		count      int
		threshold  int
		version    uint64
		createdAt  int64
		updatedAt  int64
	)
	if err := row.Scan(&ownerHex, &pendingHex, &count, &threshold, &version, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	owner, err := identity.Parse(ownerHex)
	if err != nil {
		return nil, fmt.Errorf("%w: owner column: %v", storage.ErrCorrupted, err)
	}
	st := &account.State{
		ID:        id,
		Owner:     owner,
		Guardians: make(map[identity.GuardianID]struct{}, count),
		Count:     count,
		Threshold: threshold,
		Version:   version,
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}
	if pendingHex != "" {
		pending, err := identity.Parse(pendingHex)
		if err != nil {
			return nil, fmt.Errorf("%w: pending_owner column: %v", storage.ErrCorrupted, err)
		}
		st.PendingOwner = pending
	}

	rows, err := s.sqlDB.Query(
		`SELECT guardian_id FROM account_guardians WHERE account = ?`,
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("get guardians: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var gidHex string
		if err := rows.Scan(&gidHex); err != nil {
			return nil, fmt.Errorf("get guardians: %w", err)
		}
		gid, err := identity.ParseGuardianID(gidHex)
		if err != nil {
			return nil, fmt.Errorf("%w: guardian_id column: %v", storage.ErrCorrupted, err)
		}
		st.Guardians[gid] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get guardians: %w", err)
	}

	if err := st.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorrupted, err)
	}
	return st, nil
}

func (s *Store) Update(st *account.State, expectedVersion uint64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if st == nil {
		return fmt.Errorf("sqlite: nil state")
	}
	if err := st.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrCorrupted, err)
	}

	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`UPDATE accounts
		    SET owner = ?, pending_owner = ?,
		        guardian_count = ?, threshold = ?, version = ?,
		        updated_at = ?
		  WHERE account = ? AND version = ?`,
		st.Owner.String(),
		pendingColumn(st.PendingOwner),
		st.Count,
		st.Threshold,
		st.Version,
		toMillis(st.UpdatedAt),
		st.ID.String(),
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		// Either the account is unknown or someone else committed first.
		var one int
		err := tx.QueryRow(`SELECT 1 FROM accounts WHERE account = ?`, st.ID.String()).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		return storage.ErrVersionConflict
	}

	if _, err := tx.Exec(`DELETE FROM account_guardians WHERE account = ?`, st.ID.String()); err != nil {
		return fmt.Errorf("clear guardians: %w", err)
	}
	if err := insertGuardians(tx, st); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

func (s *Store) List() ([]identity.Identity, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.Query(`SELECT account FROM accounts ORDER BY account ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []identity.Identity
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		id, err := identity.Parse(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: account column: %v", storage.ErrCorrupted, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

// ReceiptArchive exposes the store's receipts table as a receipt.Archive, so
// a daemon backed by SQLite keeps receipts in the same database file as
// account state.
type ReceiptArchive struct {
	store *Store
}

// Receipts returns the receipt archive view of this store.
func (s *Store) Receipts() *ReceiptArchive {
	return &ReceiptArchive{store: s}
}

func (a *ReceiptArchive) Put(bytes []byte) (cid.Cid, error) {
	if a == nil || a.store == nil || a.store.sqlDB == nil {
		return cid.Undef, fmt.Errorf("storage is not configured")
	}
	id, err := receipt.ComputeCID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, receipt.ErrInvalidCID
	}

	res, err := a.store.sqlDB.Exec(
		`INSERT OR IGNORE INTO receipts (cid, body, stored_at) VALUES (?, ?, ?)`,
		id.String(), bytes, toMillis(time.Now()),
	)
	if err != nil {
		return cid.Undef, fmt.Errorf("put receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return cid.Undef, fmt.Errorf("put receipt: %w", err)
	}
	if n == 0 {
		// Row already present: verify immutability.
		existing, rerr := a.Get(id)
		if rerr != nil {
			return cid.Undef, receipt.ErrImmutable
		}
		if string(existing) != string(bytes) {
			return cid.Undef, receipt.ErrImmutable
		}
	}
	return id, nil
}

// Get reads archived receipt bytes by CID, re-verifying content addressing.
func (a *ReceiptArchive) Get(id cid.Cid) ([]byte, error) {
	if a == nil || a.store == nil || a.store.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if !id.Defined() {
		return nil, receipt.ErrInvalidCID
	}
	var body []byte
	err := a.store.sqlDB.QueryRow(`SELECT body FROM receipts WHERE cid = ?`, id.String()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, receipt.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	got, err := receipt.ComputeCID(body)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, receipt.ErrCIDMismatch
	}
	return body, nil
}

// Has reports whether a receipt CID is archived.
func (a *ReceiptArchive) Has(id cid.Cid) bool {
	if a == nil || a.store == nil || a.store.sqlDB == nil || !id.Defined() {
		return false
	}
	var one int
	err := a.store.sqlDB.QueryRow(`SELECT 1 FROM receipts WHERE cid = ?`, id.String()).Scan(&one)
	return err == nil
}

func pendingColumn(pending identity.Identity) string {
	if pending.IsZero() {
		return ""
	}
	return pending.String()
}

func insertGuardians(tx *sql.Tx, st *account.State) error {
	for gid := range st.Guardians {
		if _, err := tx.Exec(
			`INSERT INTO account_guardians (account, guardian_id) VALUES (?, ?)`,
			st.ID.String(), gid.String(),
		); err != nil {
			return fmt.Errorf("insert guardian: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}
