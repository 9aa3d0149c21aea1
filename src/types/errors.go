package types

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable means the backing store could not be reached; the
	// repository degrades to a synthetic all-available inventory.
	ErrStoreUnavailable = errors.New("ticket store unavailable")

	// ErrInvalidTransition means an action was attempted against a ticket
	// whose current status does not permit it. No state changes.
	ErrInvalidTransition = errors.New("invalid ticket transition")

	// ErrUploadFailure blocks a submission entirely: no reservation is
	// created without a persisted proof reference.
	ErrUploadFailure = errors.New("payment proof upload failed")

	// ErrPersistenceFailure means the local view was updated but the remote
	// upsert failed; affected rows stay flagged as unconfirmed.
	ErrPersistenceFailure = errors.New("ticket write may not have been saved")

	ErrSessionNotFound  = errors.New("reservation session not found")
	ErrEmptySelection   = errors.New("no tickets selected")
	ErrRemarkRequired   = errors.New("a rejection remark is required unless explicitly confirmed")
	ErrTicketOutOfRange = errors.New("ticket id out of range")
)

// StaleSelectionError reports session-held ids that no longer satisfy a
// precondition status at checkout or submit time.
type StaleSelectionError struct {
	IDs []int
}

func (e *StaleSelectionError) Error() string {
	return fmt.Sprintf("selection contains stale tickets: %v", e.IDs)
}
