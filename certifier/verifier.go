package certifier

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/yashbavkar26/agri-backend/cryptoutils"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

// Verifier checks signed advisory certificates against the service's public
// key. A mismatched signature is an expected outcome, not an exceptional
// one: Verify reports it as false with a nil error. Only structurally
// invalid input (undecodable signature encoding, missing required payload
// fields) produces an error.
type Verifier struct {
	keys interfaces.KeyProvider
}

// NewVerifier creates a Verifier backed by the given key provider.
func NewVerifier(keys interfaces.KeyProvider) *Verifier {
	return &Verifier{keys: keys}
}

// Verify recomputes the canonical payload digest and checks the signature.
// Returns (true, nil) iff payload and signature are unmodified since signing
// and the verifying key matches the signing key's pair. Any mutation of a
// single field or of the signature yields (false, nil). Structurally invalid
// input fails with an ErrMalformedInput-wrapped error.
func (v *Verifier) Verify(cert interfaces.SignedCertificate) (bool, error) {
	if err := cert.Payload.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", interfaces.ErrMalformedInput, err)
	}
	if strings.TrimSpace(cert.Signature) == "" {
		return false, fmt.Errorf("%w: empty signature", interfaces.ErrMalformedInput)
	}

	sig, err := base64.StdEncoding.DecodeString(cert.Signature)
	if err != nil {
		return false, fmt.Errorf("%w: undecodable signature encoding: %v", interfaces.ErrMalformedInput, err)
	}

	pub, err := v.keys.PublicKey()
	if err != nil {
		return false, err
	}

	canonical, err := cryptoutils.CanonicalJSON(cert.Payload)
	if err != nil {
		return false, fmt.Errorf("%w: %v", interfaces.ErrMalformedInput, err)
	}

	digest := sha256.Sum256(canonical)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return false, nil
	}
	return true, nil
}
