package sheets

import "errors"

var (
	// ErrUnavailable wraps every transport or API failure.
	ErrUnavailable = errors.New("remote sheet unavailable")

	// ErrReadOnly is returned by writes to a read-only source.
	ErrReadOnly = errors.New("remote sheet is read-only")

	// ErrNoWorksheet means the spreadsheet has no worksheets at all.
	ErrNoWorksheet = errors.New("spreadsheet has no worksheets")
)
