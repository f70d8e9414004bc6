// Package tracker is a local-first financial session manager. It is designed
// to keep a single account's balance and transaction history consistent on the
// client, even without a reachable backend.
//
// The core functionalities include:
//   - Sessions: credential login, biometric re-assertion through a Gate, and
//     logout. The authenticated Account is persisted so that its balance
//     survives restarts and later logins.
//   - Ledger: a cache-first, newest-first list of immutable entries. A
//     non-empty persisted history is always preferred over a backend fetch.
//   - Transfers: a Validator checks a TransferRequest against the live balance
//     and builds the debit entry; the Wallet commits it to the balance and the
//     ledger as one unit.
//   - Persistence: a Store encodes typed values as JSON over a Medium (a
//     folder of files, or memory).
//
// Persistence failures after a committed change never undo it: they are
// logged and reported as DurabilityWarning values.
package tracker
