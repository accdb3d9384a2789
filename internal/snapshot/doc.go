// Package snapshot keeps the local copy of the sample table and the trash.
//
// # Overview
//
// Two backends implement ledger.Local:
//
//   - JSONStore writes two files, one for the active table and one for the
//     trash, in the same layout the sheet uses: one object per row keyed by
//     column name, dates as plain strings, numbers as numbers.
//   - SQLStore keeps the same row objects in SQLite (modernc.org/sqlite) or
//     Postgres (pgx), with the schema managed by goose migrations embedded
//     in the binary.
//
// A snapshot that was never written is reported as not found rather than
// as an empty table, so the reconciler can fall back to the seed data.
package snapshot
