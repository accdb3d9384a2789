// Package sheets connects the ledger to the shared Google spreadsheet.
//
// # Overview
//
// GoogleSheet reads and writes one worksheet through the Sheets v4 API with
// service-account credentials. CSVExport reads the same spreadsheet through
// its public CSV export link and is used when no credentials are configured
// or the API is down; it cannot write. Fallback chains the two.
//
// All adapters implement ledger.Remote.
package sheets
