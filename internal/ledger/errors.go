package ledger

import "errors"

var (
	// ErrNotFound reports an NO that is not in the active table.
	ErrNotFound = errors.New("record not found")

	// ErrNotInTrash reports an NO that is not in the trash.
	ErrNotInTrash = errors.New("record not in trash")

	// ErrConflict reports an NO that is already taken in the active table.
	ErrConflict = errors.New("record number already in use")

	// ErrInvalid reports input that fails validation.
	ErrInvalid = errors.New("invalid input")

	// ErrPersist wraps local or remote write failures. The in-memory change
	// it accompanies has already been applied.
	ErrPersist = errors.New("persist failed")
)
