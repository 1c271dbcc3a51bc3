// Package cryptoutils provides the cryptographic building blocks of the
// advisory certificate system: canonical payload serialization and PEM
// handling for the RSA signing key pair.
//
// # Canonical Serialization
//
// CanonicalJSON produces the deterministic byte encoding signatures are
// computed over. Keys are sorted lexicographically at every nesting level and
// the encoding carries no insignificant whitespace, so serialization of a
// payload is independent of the order its fields were constructed in and
// re-serialization of a parsed document is byte-identical.
//
// # Key Encoding
//
// Private keys use PKCS#1 ("RSA PRIVATE KEY") PEM blocks; public keys use
// PKIX ("PUBLIC KEY") PEM blocks. The typed PrivateKeyPEM and PublicKeyPEM
// byte slices keep the two encodings from being confused.
package cryptoutils
