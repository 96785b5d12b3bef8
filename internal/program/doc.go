// Package program implements the clock program: a single deterministic
// storage account that is created on first use and overwritten on every call.
//
// # Accounts
//
// Every call names exactly three accounts, in order:
//
//	[0] storage         writable   must equal DeriveStorageAddress(programID)
//	[1] payer           writable, signer   funds creation on the first call
//	[2] system program  read-only
//
// # Call Sequence
//
//  1. Derive (address, bump) from Seed and the program id. A storage handle
//     at any other address aborts the call with a panic carrying an
//     ADDRESS_MISMATCH *Error. This is never softened into a normal error.
//  2. Validate the payload against the deployment's Variant.
//  3. If the storage account has no data, create it through the system
//     program, sized to the payload and funded to the rent-exempt minimum,
//     signing for the derived address with the (Seed, bump) proof.
//  4. Overwrite the account data with the payload.
//
// Creation and write happen in the same transaction, so no reader observes a
// created-but-unwritten account.
package program
