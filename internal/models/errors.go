package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingAction       = errors.New("action is required")
	ErrMissingActor        = errors.New("actor_id is required")
	ErrMissingResourceType = errors.New("resource_type is required")
	ErrMissingResourceID   = errors.New("resource_id is required")
	ErrInvalidAction       = errors.New("unknown action")
	ErrInvalidSensitivity  = errors.New("unknown sensitivity level")
)

// ErrEntryNotFound indicates the requested ledger entry does not exist.
var ErrEntryNotFound = errors.New("audit entry not found")

// ErrImmutableEntry is returned by any attempt to update or delete a
// persisted ledger entry. Entries are append-only; this is a design
// constraint, not a missing feature.
var ErrImmutableEntry = errors.New("audit entries are immutable")

// ErrDuplicateHash indicates an append whose hash collides with an
// existing entry. The service retries entry construction; the store
// never overwrites.
var ErrDuplicateHash = errors.New("duplicate entry hash")

// ErrChainForked indicates an append whose previous_hash is already
// claimed by another entry: a concurrent writer won the tail. The
// service re-reads the tail and retries.
var ErrChainForked = errors.New("chain tail already extended")

// StorageError wraps a transient persistence failure. Callers decide
// whether to retry; the ledger never retries storage internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for the named operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
