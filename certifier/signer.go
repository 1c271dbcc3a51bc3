package certifier

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/yashbavkar26/agri-backend/cryptoutils"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

// SignatureFragmentLen is the number of leading base64 characters of a
// signature embedded in rendered artifacts for human inspection. It is a
// display convenience only; the full signature remains the only thing
// verification ever checks.
const SignatureFragmentLen = 24

// Signer produces signed advisory certificates. Signing is hash-then-sign:
// SHA-256 over the canonical payload bytes, signed with RSA PKCS#1 v1.5.
// The scheme is deterministic: identical payload and key material always
// yield an identical signature, so retrying a signing failure is pointless
// and never done.
type Signer struct {
	keys interfaces.KeyProvider
	now  func() time.Time
}

// NewSigner creates a Signer backed by the given key provider.
func NewSigner(keys interfaces.KeyProvider) *Signer {
	return &Signer{keys: keys, now: time.Now}
}

// Sign canonically serializes the payload, signs its digest, and stamps the
// current time. It performs no I/O and mutates no shared state. Fails with
// an ErrSigning-wrapped error if the private key is unavailable or the
// primitive rejects the key material.
func (s *Signer) Sign(payload interfaces.Payload) (interfaces.SignedCertificate, error) {
	key, err := s.keys.PrivateKey()
	if err != nil {
		return interfaces.SignedCertificate{}, fmt.Errorf("%w: %v", interfaces.ErrSigning, err)
	}

	canonical, err := cryptoutils.CanonicalJSON(payload)
	if err != nil {
		return interfaces.SignedCertificate{}, fmt.Errorf("%w: %v", interfaces.ErrSigning, err)
	}

	digest := sha256.Sum256(canonical)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return interfaces.SignedCertificate{}, fmt.Errorf("%w: %v", interfaces.ErrSigning, err)
	}

	return interfaces.SignedCertificate{
		Payload:   payload,
		Signature: base64.StdEncoding.EncodeToString(sig),
		SignedAt:  interfaces.Timestamp(s.now()),
	}, nil
}

// TruncateSignature returns the human-inspectable fragment of a signature
// for artifact rendering.
func TruncateSignature(signature string) string {
	if len(signature) <= SignatureFragmentLen {
		return signature
	}
	return signature[:SignatureFragmentLen]
}
