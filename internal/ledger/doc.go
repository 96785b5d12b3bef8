// Package ledger is a local host ledger for on-ledger programs.
//
// It supplies what a program expects from its execution environment:
//
//   - Accounts: addressed storage slots with an owner, lamport balance and
//     a byte payload (Account, AccountInfo).
//   - Transactions: ed25519-signed messages carrying instructions
//     (Transaction, Instruction, AccountMeta).
//   - The system program: account creation with rent-exempt funding
//     (NewCreateAccountInstruction).
//   - Derived authority: programs may sign sub-calls for program-derived
//     addresses by presenting the derivation seeds (InvokeContext.InvokeSigned).
//   - Rent: minimum balances proportional to data length (Rent).
//
// # Execution Model
//
// Bank.ProcessTransaction runs one transaction at a time per account set.
// Accounts named by a transaction are locked before loading (writers
// exclusive, readers shared, acquired in key order), so two transactions that
// touch the same account are serialized. All instructions run against working
// copies; the copies are committed through AccountStore.Commit only if every
// instruction succeeds. A failed transaction leaves stored state unchanged.
//
// Locks only cover one Bank. Banks in different processes may share a
// durable store, so each commit also carries the version every account had
// when it was loaded. A store that has moved on rejects the batch with
// ErrConflict; the Bank then moves its slot clock past the store's last slot
// and runs the transaction again on fresh state.
//
// Replays are rejected by transaction ID. IDs are remembered only while the
// nonce time is within MaxTransactionAge of the Bank's clock; older
// transactions fail with ErrTransactionExpired instead.
//
// A program panic is recovered and reported as a failed instruction with code
// PROGRAM_PANICKED; the panic value stays reachable via errors.As.
package ledger
