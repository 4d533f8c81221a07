package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCollection indicates a fetch against a collection the
	// backend does not hold.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrStoreUnavailable indicates the record store cannot be reached.
	// The aggregator recovers from this per source; it is never
	// surfaced to an HTTP caller.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
