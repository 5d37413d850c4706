package planner

import "errors"

// Error taxonomy of the mutation entry points. Pure components never fail;
// everything a caller can mishandle surfaces as one of these sentinels,
// wrapped with context.
var (
	// ErrValidation marks a malformed draft, e.g. a range ending before
	// it starts.
	ErrValidation = errors.New("planner: validation failed")
	// ErrNotFound marks an operation naming an unknown event, leg, stop
	// or resource id.
	ErrNotFound = errors.New("planner: not found")
	// ErrConflict marks a commit rejected because a resource in the
	// draft is unavailable for its range.
	ErrConflict = errors.New("planner: assignment conflict")
	// ErrPersistence marks a data store failure. In-memory state is
	// never left partially applied; the draft survives for retry.
	ErrPersistence = errors.New("planner: persistence failure")
	// ErrDraftClosed marks an operation on a committed or discarded
	// draft.
	ErrDraftClosed = errors.New("planner: draft closed")
)
