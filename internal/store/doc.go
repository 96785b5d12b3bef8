// Package store provides SQLite-backed durable storage for the local ledger.
//
// The store holds:
//   - Accounts: the latest committed state of every non-empty address
//   - Transactions: one record per processed transaction, successful or not
//
// # Critical Patterns
//
// Atomic batches: Commit writes every account of a batch and its transaction
// record inside one SQL transaction. A failed commit leaves the previous
// state untouched.
//
// Optimistic commits: every write bumps the account's row in account_versions.
// Commit first checks the versions the ledger loaded and that the record's
// slot is unused, returning ledger.ErrConflict otherwise. Write transactions
// begin IMMEDIATE, so the check and the write hold one database lock even
// when several processes open the same file.
//
// Logical time: rows carry the ledger slot, never wall-clock time. Queries
// order by slot, so listing is deterministic across reopen.
//
// Empty accounts: an account with no lamports, no data and the system owner
// is deleted rather than stored, matching the ledger's "never existed" view.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
