package cryptoutils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// SigningKeyBits is the RSA modulus size for generated signing key pairs.
const SigningKeyBits = 2048

// PrivateKeyPEM represents an RSA private key in PKCS#1 PEM encoding.
type PrivateKeyPEM []byte

// PublicKeyPEM represents an RSA public key in PKIX PEM encoding.
type PublicKeyPEM []byte

// GenerateSigningKey generates a new RSA signing key pair.
func GenerateSigningKey() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, SigningKeyBits)
	if err != nil {
		return nil, fmt.Errorf("could not generate RSA key: %w", err)
	}
	return key, nil
}

// EncodePrivateKey encodes an RSA private key as a PKCS#1 PEM block.
func EncodePrivateKey(key *rsa.PrivateKey) PrivateKeyPEM {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// EncodePublicKey encodes an RSA public key as a PKIX PEM block.
func EncodePublicKey(key *rsa.PublicKey) (PublicKeyPEM, error) {
	pubBytes, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	}), nil
}

// ParsePrivateKey parses a PKCS#1 PEM-encoded RSA private key.
func ParsePrivateKey(data PrivateKeyPEM) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, errors.New("invalid private key: not a PEM-encoded RSA private key")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("invalid private key structure: %w", err)
	}

	return key, nil
}

// ParsePublicKey parses a PKIX PEM-encoded RSA public key.
func ParsePublicKey(data PublicKeyPEM) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("invalid public key: not a PEM-encoded public key")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("invalid public key structure: %w", err)
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", parsed)
	}

	return pub, nil
}

// Validate checks if the private key PEM is properly formed.
func (k PrivateKeyPEM) Validate() error {
	_, err := ParsePrivateKey(k)
	return err
}

// Validate checks if the public key PEM is properly formed.
func (k PublicKeyPEM) Validate() error {
	_, err := ParsePublicKey(k)
	return err
}
