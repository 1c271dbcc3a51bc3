package kms

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/yashbavkar26/agri-backend/cryptoutils"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

// Key file names inside the configured key directory.
const (
	PrivateKeyFile = "signing_key.pem"
	PublicKeyFile  = "signing_key.pub.pem"
)

// FileKMS owns the process-wide RSA signing key pair, persisted as two PEM
// files. The pair is loaded (or generated exactly once) during Bootstrap and
// is read-only for the rest of the process lifetime. Rotating keys
// invalidates verification of previously issued certificates, so the same
// pair is reused across restarts.
type FileKMS struct {
	dir string
	log *slog.Logger

	mu   sync.RWMutex
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

// NewFileKMS creates a key lifecycle manager rooted at the given directory.
// No I/O happens until Bootstrap is called.
func NewFileKMS(dir string, log *slog.Logger) *FileKMS {
	return &FileKMS{dir: dir, log: log}
}

// Bootstrap loads the key pair from disk, generating and persisting a new
// pair if none exists. It is idempotent and safe to call concurrently: the
// mutex guards the in-process check-then-create sequence, and the private
// key file is created with O_EXCL so the first writer wins across processes
// too. The loser of the race re-reads the winner's files.
//
// Storage failures are wrapped with interfaces.ErrKeyStorage and are fatal
// at startup: no certificate can ever be issued without key material.
func (k *FileKMS) Bootstrap() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.priv != nil {
		return nil
	}

	if err := os.MkdirAll(k.dir, 0700); err != nil {
		return fmt.Errorf("%w: could not create key directory: %v", interfaces.ErrKeyStorage, err)
	}

	key, err := k.loadKeyPair()
	if err == nil {
		k.priv = key
		k.pub = &key.PublicKey
		k.log.Info("Loaded existing signing key pair", "dir", k.dir)
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	key, err = k.generateKeyPair()
	if err != nil {
		return err
	}

	k.priv = key
	k.pub = &key.PublicKey
	return nil
}

// PrivateKey returns the signing key. Fails with ErrKeyNotBootstrapped if
// Bootstrap has not completed successfully.
func (k *FileKMS) PrivateKey() (*rsa.PrivateKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.priv == nil {
		return nil, interfaces.ErrKeyNotBootstrapped
	}
	return k.priv, nil
}

// PublicKey returns the verification key. Fails with ErrKeyNotBootstrapped
// if Bootstrap has not completed successfully.
func (k *FileKMS) PublicKey() (*rsa.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.pub == nil {
		return nil, interfaces.ErrKeyNotBootstrapped
	}
	return k.pub, nil
}

// PublicKeyPEM returns the verification key in PKIX PEM encoding.
func (k *FileKMS) PublicKeyPEM() (cryptoutils.PublicKeyPEM, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}
	return cryptoutils.EncodePublicKey(pub)
}

// loadKeyPair reads and parses the persisted pair. Returns an error
// satisfying os.IsNotExist when the private key file is absent. A present
// private key with a missing public key file is repaired, since the public
// half derives from the private one.
func (k *FileKMS) loadKeyPair() (*rsa.PrivateKey, error) {
	privPath := filepath.Join(k.dir, PrivateKeyFile)

	privData, err := os.ReadFile(privPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: could not read private key: %v", interfaces.ErrKeyStorage, err)
	}

	key, err := cryptoutils.ParsePrivateKey(privData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrKeyStorage, err)
	}

	pubPath := filepath.Join(k.dir, PublicKeyFile)
	if _, err := os.Stat(pubPath); os.IsNotExist(err) {
		k.log.Warn("Public key file missing, restoring from private key", "path", pubPath)
		if err := k.writePublicKey(&key.PublicKey); err != nil {
			return nil, err
		}
	}

	return key, nil
}

// generateKeyPair creates a fresh pair and persists both halves. The private
// key file is the commit point: it is created with O_EXCL, and if another
// bootstrap got there first the freshly generated key is discarded in favor
// of the persisted one.
func (k *FileKMS) generateKeyPair() (*rsa.PrivateKey, error) {
	key, err := cryptoutils.GenerateSigningKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSigning, err)
	}

	privPath := filepath.Join(k.dir, PrivateKeyFile)
	f, err := os.OpenFile(privPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			// Another process persisted a pair between our existence check
			// and the create. Use theirs.
			return k.loadKeyPair()
		}
		return nil, fmt.Errorf("%w: could not create private key file: %v", interfaces.ErrKeyStorage, err)
	}

	if _, err := f.Write(cryptoutils.EncodePrivateKey(key)); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: could not write private key: %v", interfaces.ErrKeyStorage, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: could not write private key: %v", interfaces.ErrKeyStorage, err)
	}

	if err := k.writePublicKey(&key.PublicKey); err != nil {
		return nil, err
	}

	k.log.Info("Generated new signing key pair", "dir", k.dir, "bits", cryptoutils.SigningKeyBits)
	return key, nil
}

func (k *FileKMS) writePublicKey(pub *rsa.PublicKey) error {
	pubPEM, err := cryptoutils.EncodePublicKey(pub)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrKeyStorage, err)
	}

	pubPath := filepath.Join(k.dir, PublicKeyFile)
	if err := os.WriteFile(pubPath, pubPEM, 0644); err != nil {
		return fmt.Errorf("%w: could not write public key: %v", interfaces.ErrKeyStorage, err)
	}
	return nil
}
