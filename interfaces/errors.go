package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when an issuance request is missing required
	// fields. Reported to the caller as a client error, never retried.
	ErrValidation = errors.New("invalid issuance request")

	// ErrKeyNotBootstrapped is returned when key material is accessed before
	// the key lifecycle manager completed its bootstrap.
	ErrKeyNotBootstrapped = errors.New("signing key pair not bootstrapped")

	// ErrKeyStorage is returned when persistent key storage is unreadable or
	// unwritable. Fatal at startup: without key material no certificate can
	// ever be issued.
	ErrKeyStorage = errors.New("key storage unavailable")

	// ErrSigning is returned when the cryptographic primitive rejects the key
	// material or fails to produce a signature. Retrying with the same
	// payload and key reproduces the failure, so callers must not retry.
	ErrSigning = errors.New("signing failed")

	// ErrMalformedInput is returned by verification for structurally invalid
	// input: an undecodable signature encoding or missing required payload
	// fields. A correct-but-mismatched signature is not malformed input; it
	// verifies to false without error.
	ErrMalformedInput = errors.New("malformed verification input")

	// ErrArtifactNotFound is returned when a requested certificate artifact
	// does not exist in the storage backend.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// MissingFieldError reports a required payload field as absent.
func MissingFieldError(field string) error {
	return fmt.Errorf("%w: missing required field %q", ErrValidation, field)
}
