package interfaces

import (
	"context"
	"crypto/rsa"

	"github.com/yashbavkar26/agri-backend/cryptoutils"
)

// KeyProvider exposes the process-wide signing key pair after bootstrap.
// Accessors fail with ErrKeyNotBootstrapped until the lifecycle manager has
// successfully loaded or generated the pair.
type KeyProvider interface {
	// PrivateKey returns the signing key. Read-only after bootstrap.
	PrivateKey() (*rsa.PrivateKey, error)

	// PublicKey returns the verification key matching PrivateKey.
	PublicKey() (*rsa.PublicKey, error)

	// PublicKeyPEM returns the verification key in PKIX PEM encoding,
	// suitable for handing to third parties.
	PublicKeyPEM() (cryptoutils.PublicKeyPEM, error)
}

// StorageBackend persists named certificate artifacts. Artifacts are
// append-only: a name is written once and never edited, only superseded by a
// new artifact under a new name.
type StorageBackend interface {
	// Store persists data under the given artifact name and returns the
	// reference callers use to fetch it later.
	Store(ctx context.Context, name string, data []byte) (string, error)

	// Fetch retrieves a stored artifact. Returns ErrArtifactNotFound if no
	// artifact exists under the name.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Available checks whether the backend is currently accessible.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for this storage backend.
	Name() string

	// LocationURI returns the URI identifying where this backend stores data.
	LocationURI() string
}

// Renderer produces the human-readable certificate artifact for a signed
// payload. The rendered document is a convenience; the cryptographic record
// stays authoritative, so render failures must never fail issuance.
type Renderer interface {
	// Render writes a document for the payload and returns its artifact
	// reference. truncatedSig is a display fragment of the signature with no
	// cryptographic meaning.
	Render(ctx context.Context, payload Payload, truncatedSig string) (string, error)
}

// AuditRecorder consumes one AuditEvent per issuance attempt for later
// analytics. Recording failures are logged by callers, never propagated.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}
