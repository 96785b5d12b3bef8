package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// GetAccount returns the committed account for key.
// The bool is false if the account has never been stored.
func (s *Store) GetAccount(ctx context.Context, key pubkey.Pubkey) (ledger.Account, bool, error) {
	var (
		lamports   int64
		owner      string
		executable int
		data       []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT lamports, owner, executable, data
		FROM accounts
		WHERE pubkey = ?
	`, key.String()).Scan(&lamports, &owner, &executable, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Account{}, false, nil
	}
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("get account %s: %w", key, err)
	}

	ownerKey, err := pubkey.ParsePubkey(owner)
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("get account %s: %w", key, err)
	}

	return ledger.Account{
		Lamports:   uint64(lamports),
		Data:       data,
		Owner:      ownerKey,
		Executable: executable != 0,
	}, true, nil
}

// LoadAccount returns the committed account for key together with its
// version. A key that was never written has version 0 and a zero Account.
func (s *Store) LoadAccount(ctx context.Context, key pubkey.Pubkey) (ledger.Account, uint64, error) {
	var (
		version    int64
		lamports   sql.NullInt64
		owner      sql.NullString
		executable sql.NullInt64
		data       []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(v.version, 0), a.lamports, a.owner, a.executable, a.data
		FROM (SELECT ? AS pubkey) k
		LEFT JOIN account_versions v ON v.pubkey = k.pubkey
		LEFT JOIN accounts a ON a.pubkey = k.pubkey
	`, key.String()).Scan(&version, &lamports, &owner, &executable, &data)
	if err != nil {
		return ledger.Account{}, 0, fmt.Errorf("load account %s: %w", key, err)
	}
	if !owner.Valid {
		return ledger.Account{}, uint64(version), nil
	}

	ownerKey, err := pubkey.ParsePubkey(owner.String)
	if err != nil {
		return ledger.Account{}, 0, fmt.Errorf("load account %s: %w", key, err)
	}
	return ledger.Account{
		Lamports:   uint64(lamports.Int64),
		Data:       data,
		Owner:      ownerKey,
		Executable: executable.Int64 != 0,
	}, uint64(version), nil
}

// accountVersion reads the version of key inside tx.
func accountVersion(ctx context.Context, tx *sql.Tx, key pubkey.Pubkey) (uint64, error) {
	var version int64
	err := tx.QueryRowContext(ctx, `SELECT version FROM account_versions WHERE pubkey = ?`, key.String()).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("account version %s: %w", key, err)
	}
	return uint64(version), nil
}

// LastSlot returns the highest committed slot, or 0 for a new database.
func (s *Store) LastSlot(ctx context.Context) (uint64, error) {
	var slot int64
	err := s.db.QueryRowContext(ctx, `SELECT last_slot FROM ledger_meta WHERE id = 1`).Scan(&slot)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last slot: %w", err)
	}
	return uint64(slot), nil
}

// ListTransactions returns the most recent transaction records, newest first.
// Results are ordered deterministically: ORDER BY slot DESC, signature ASC.
//
// Returns an empty slice (not nil) if no records exist.
func (s *Store) ListTransactions(ctx context.Context, limit int) ([]ledger.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT signature, slot, fee_payer, status, error, logs
		FROM transactions
		ORDER BY slot DESC, signature COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	records := []ledger.TransactionRecord{}
	for rows.Next() {
		var (
			rec      ledger.TransactionRecord
			slot     int64
			feePayer string
			logsJSON string
		)
		if err := rows.Scan(&rec.Signature, &slot, &feePayer, &rec.Status, &rec.Error, &logsJSON); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.Slot = uint64(slot)
		if rec.FeePayer, err = pubkey.ParsePubkey(feePayer); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if rec.Logs, err = unmarshalLogs(logsJSON); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return records, nil
}

var _ ledger.AccountStore = (*Store)(nil)
