package domain

import "errors"

var (
	// requested artifact (or blob) does not exist.
	ErrMissing = errors.New("missing")

	// the store refused the operation for this caller.
	ErrUnauthorized = errors.New("unauthorized")

	// a record with the same unique key already exists.
	ErrConflict = errors.New("conflict")

	// admission was requested for an empty or malformed principal.
	ErrInvalidPrincipal = errors.New("invalid principal")

	// the blob was stored but its metadata record was not.
	// The blob stays in place and becomes reclaimable once it ages
	// past the retention TTL.
	ErrOrphaned = errors.New("blob stored without metadata record")
)
