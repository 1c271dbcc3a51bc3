// Package interfaces defines core interfaces and types for the advisory
// certificate system, separating component contracts from implementations.
//
// # Core Types
//
//   - Payload: the structured advisory exchange being certified (requester,
//     query text, language, answer text, citations, issuance timestamp)
//   - SignedCertificate: an immutable payload + base64 signature + signed_at
//   - SourceCitation: one retrieval result referenced by the answer
//   - AuditEvent: the per-attempt record handed to the audit collaborator
//
// # Component Contracts
//
// KeyProvider: read-only access to the process-wide RSA key pair after the
// key lifecycle manager bootstraps it. Accessing keys before bootstrap fails
// loudly with ErrKeyNotBootstrapped rather than degrading silently.
//
// StorageBackend: append-only named artifact storage. Artifact names are
// unique per issuance, so concurrent requests never collide.
//
// Renderer: produces the human-readable certificate document. Rendering is a
// convenience layered on top of the signed record and its failure never
// blocks issuance.
//
// AuditRecorder: write-contract for issuance analytics.
//
// # Error Taxonomy
//
// Sentinel errors (ErrValidation, ErrKeyNotBootstrapped, ErrKeyStorage,
// ErrSigning, ErrMalformedInput, ErrArtifactNotFound) are wrapped with
// context by implementations and matched by callers with errors.Is. A failed
// signature verification is an expected outcome, not an error: it is
// reported as a false result, never as ErrMalformedInput.
package interfaces
