package storage

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Handlers map these onto HTTP statuses;
// nothing below the server layer knows about HTTP.

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Resource)
}

type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation: %s", e.Reason)
}

// errStorageConflict marks a lost race on a uniqueness key. It never leaves
// the Manager: the losing writer retries once and resolves the outcome by
// interaction type.
var errStorageConflict = errors.New("storage conflict")
