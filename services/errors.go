package services

import "errors"

// Workflow error taxonomy. Handlers map these onto HTTP status codes with
// errors.Is; wrap with fmt.Errorf("%w: ...") to add detail.
var (
	// ErrNotFound covers missing rows and rows the caller may not see
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the actor's identity or role does not
	// authorize the mutation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIllegalTransition means the requested status change is not
	// reachable from the current status
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidState means the request left the status that allowed the
	// mutation (owner edits are pending-only)
	ErrInvalidState = errors.New("request is not editable in its current status")

	// ErrConflict means the row changed between read and write; the caller
	// may retry with fresh data
	ErrConflict = errors.New("request was modified concurrently")

	// ErrValidation covers malformed or unacceptable input
	ErrValidation = errors.New("validation failed")
)
