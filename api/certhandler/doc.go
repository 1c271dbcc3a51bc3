// Package certhandler implements the HTTP handlers of the advisory
// certificate API: issuance, verification, signing key distribution, and
// artifact retrieval.
//
// Error mapping follows the service's error taxonomy: validation failures
// and malformed verification input map to 400, signing failures to 500, and
// a legitimate-but-mismatched signature is a 200 response with valid=false,
// because a failed verification is an expected outcome rather than an
// exceptional one.
package certhandler
