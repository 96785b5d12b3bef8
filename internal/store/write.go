package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/pubkey"
)

// Commit applies a ledger batch atomically.
//
// Account versions and the record slot are checked first; any mismatch
// aborts with ledger.ErrConflict. Accounts are then upserted (or deleted when
// empty) with their versions bumped, the transaction record is inserted, and
// the last slot advances, all in one SQL transaction.
func (s *Store) Commit(ctx context.Context, batch ledger.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit: begin: %w", err)
	}
	defer tx.Rollback()

	if err := checkVersions(ctx, tx, batch.Versions); err != nil {
		return err
	}
	if rec := batch.Record; rec != nil {
		var taken int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE slot = ?`, int64(rec.Slot)).Scan(&taken)
		if err != nil {
			return fmt.Errorf("commit: check slot: %w", err)
		}
		if taken > 0 {
			return fmt.Errorf("commit: %w: slot %d already recorded", ledger.ErrConflict, rec.Slot)
		}
	}

	for key, acc := range batch.Accounts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO account_versions (pubkey, version) VALUES (?, 1)
			ON CONFLICT(pubkey) DO UPDATE SET version = version + 1
		`, key.String())
		if err != nil {
			return fmt.Errorf("commit: bump version %s: %w", key, err)
		}

		if acc.IsEmpty() {
			if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE pubkey = ?`, key.String()); err != nil {
				return fmt.Errorf("commit: delete account %s: %w", key, err)
			}
			continue
		}

		data := acc.Data
		if data == nil {
			data = []byte{}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO accounts (pubkey, lamports, owner, executable, data, updated_slot)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(pubkey) DO UPDATE SET
				lamports = excluded.lamports,
				owner = excluded.owner,
				executable = excluded.executable,
				data = excluded.data,
				updated_slot = excluded.updated_slot
		`,
			key.String(),
			int64(acc.Lamports),
			acc.Owner.String(),
			boolToInt(acc.Executable),
			data,
			int64(batch.Slot),
		)
		if err != nil {
			return fmt.Errorf("commit: write account %s: %w", key, err)
		}
	}

	if rec := batch.Record; rec != nil {
		logsJSON, err := marshalLogs(rec.Logs)
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (signature, slot, fee_payer, status, error, logs)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			rec.Signature,
			int64(rec.Slot),
			rec.FeePayer.String(),
			rec.Status,
			rec.Error,
			logsJSON,
		)
		if err != nil {
			return fmt.Errorf("commit: write transaction %s: %w", rec.Signature, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_meta (id, last_slot) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET last_slot = MAX(last_slot, excluded.last_slot)
	`, int64(batch.Slot))
	if err != nil {
		return fmt.Errorf("commit: advance slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func checkVersions(ctx context.Context, tx *sql.Tx, versions map[pubkey.Pubkey]uint64) error {
	for key, want := range versions {
		got, err := accountVersion(ctx, tx, key)
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		if got != want {
			return fmt.Errorf("commit: %w: account %s at version %d, expected %d", ledger.ErrConflict, key, got, want)
		}
	}
	return nil
}
