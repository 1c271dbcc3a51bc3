// Package kms manages the lifecycle of the service's signing key pair.
//
// The key pair is global process-wide state by necessity: every certificate
// the service ever issues must verify against the same public key. The
// package models it as a single owned resource with explicit
// initialization-once semantics rather than a hidden singleton.
//
// # FileKMS
//
// FileKMS persists the pair as two PEM files at a configured location: the
// private key in PKCS#1 encoding, the public key in PKIX encoding. Absence
// of the pair triggers generation of a fresh RSA-2048 pair during Bootstrap;
// presence loads it without regenerating.
//
// # Bootstrap Races
//
// The regenerate-only-if-absent check is a classic check-then-create race
// under concurrent startup. FileKMS closes it twice over: a mutex serializes
// in-process callers, and the private key file is created with O_EXCL so
// that across processes exactly one writer persists a pair. Whoever loses
// the race discards its generated key and loads the persisted one.
package kms
