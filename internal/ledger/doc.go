// Package ledger is the core of the sample-request ledger.
//
// # Overview
//
// A Record is one sample request identified by its integer NO. Its workflow
// Status is never stored as independent truth: DeriveStatus recomputes it
// from the milestone dates every time records are loaded or edited.
//
// The Store holds the active table and the trash for one running process.
// All mutation goes through a Reconciler, which
//
//   - merges a freshly fetched remote table with the local snapshot and the
//     trash (Load),
//   - applies table edits and bulk operations, repairing milestone fields
//     when a status is set by hand (ApplyEdits, ChangeStatus, ...),
//   - moves records to and from the trash (Delete, Restore, Purge),
//   - and writes every change through to the local snapshot and the remote
//     sheet.
//
// Persistence failures never roll back the in-memory state: the Store stays
// authoritative for the session and the failure is returned wrapped in
// ErrPersist.
//
// # Tables
//
// Remote sheets, Excel files and CSV uploads all travel as a Table (header
// plus string rows). A Stabilizer forces any fetched Table into the known
// column order before DecodeTable turns it into records.
//
// # Concurrency
//
// Store and Reconciler are safe for concurrent use. Mutating Reconciler
// operations are serialized. Across processes the remote sheet follows
// last-write-wins full-table overwrite semantics; there is no locking.
package ledger
