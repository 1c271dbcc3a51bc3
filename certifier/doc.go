// Package certifier implements signing, verification, and issuance of
// advisory certificates.
//
// # Signing Scheme
//
// A certificate signature is computed hash-then-sign: the payload is
// canonically serialized (cryptoutils.CanonicalJSON), digested with SHA-256,
// and signed with the service's RSA private key using PKCS#1 v1.5. The
// signature travels base64-encoded. PKCS#1 v1.5 is deliberately chosen over
// PSS: it is deterministic, so signing the same payload with the same key
// reproduces the same signature and issuance needs no retry logic.
//
// # Verification Contract
//
// Verifier.Verify returns a boolean, not an error, for a legitimate but
// mismatched signature. Errors are reserved for structurally invalid input.
// Callers translating this to HTTP map false to a negative verification
// result and ErrMalformedInput to a client error.
//
// # Issuance
//
// Issuer ties the pieces together per request: validate, assemble payload
// with a server-generated timestamp, sign, render an artifact, record an
// audit event. Rendering and auditing are secondary; their failure is logged
// and the certificate is returned regardless, with an empty artifact
// reference when rendering failed.
package certifier
