// Package storage persists rendered certificate artifacts.
//
// Artifacts are opaque named documents with append-only lifecycle: each
// issuance writes one artifact under a unique collision-resistant name and
// existing artifacts are never edited, only superseded by new ones. The
// FileBackend stores them on the local file system; the
// interfaces.StorageBackend contract leaves room for remote backends.
package storage
