package domain

import (
	"github.com/saferoute/vault/internal/errors"
)

// Vault error definitions.
var (
	// ErrRecordNotFound is returned for ids that were never stored and for expired ones alike.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")

	// ErrInvalidRequestID indicates an empty or otherwise unusable request id.
	ErrInvalidRequestID = errors.Wrap(errors.ErrInvalidInput, "invalid request id")

	// ErrSerializationFailed indicates the submitted entities could not be encoded.
	ErrSerializationFailed = errors.Wrap(errors.ErrInvalidInput, "entity serialization failed")

	// ErrRecordCorrupted indicates a stored record could not be decrypted or decoded.
	// With a process-fixed key this should never happen; it is an internal fault.
	ErrRecordCorrupted = errors.Wrap(errors.ErrInternal, "stored record corrupted")
)
