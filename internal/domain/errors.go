// Package domain holds the station ledger rules: reconciliation, the
// approval state machine, stock arithmetic, alert derivation, trail
// aggregation and role capabilities. Nothing here touches storage.
package domain

import "errors"

var (
	// ErrValidation marks rejected input. Nothing is written when it is returned.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing station, fuel line, entry or alert.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks an operation the current status does not permit.
	ErrInvalidState = errors.New("invalid state")
	// ErrForbidden marks a role or station scope violation.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated marks an unknown identity or a bad token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrConflict marks a lost race on a concurrent update.
	ErrConflict = errors.New("conflict")
)
