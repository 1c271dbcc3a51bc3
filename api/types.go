// Package api defines the request and response types exchanged between the
// advisory certificate service and its HTTP clients.
package api

import (
	"context"

	"github.com/yashbavkar26/agri-backend/interfaces"
)

// IssuanceRequest is the body of POST /api/v1/certificates. QueryText and
// AnswerText are required; everything else is optional.
type IssuanceRequest struct {
	// UserID identifies the requesting farmer. A bearer-token subject, when
	// present, takes precedence over this field.
	UserID string `json:"user_id,omitempty"`

	// QueryText is the farmer's question as passed to the advisory pipeline.
	QueryText string `json:"query_text"`

	// Lang is the BCP-47 language tag of the exchange; defaults to "ml".
	Lang string `json:"lang,omitempty"`

	// AnswerText is the finished advisory answer to certify.
	AnswerText string `json:"answer_text"`

	// Sources lists the advisory documents the answer was drawn from.
	Sources []interfaces.SourceCitation `json:"sources,omitempty"`
}

// IssuanceResponse is the body of a successful issuance.
type IssuanceResponse struct {
	// Signed is the authoritative signed certificate.
	Signed interfaces.SignedCertificate `json:"signed"`

	// ArtifactRef references the rendered human-readable document. Empty
	// when rendering failed; the certificate is valid regardless.
	ArtifactRef string `json:"artifact_ref"`
}

// VerificationResponse is the body of POST /api/v1/certificates/verify.
type VerificationResponse struct {
	Valid bool `json:"valid"`
}

// SigningKeyResponse carries the service's public verification key so third
// parties can check certificates independently.
type SigningKeyResponse struct {
	// PublicKey is the PKIX PEM encoding of the verification key.
	PublicKey string `json:"public_key"`
}

type contextKey string

const userIDContextKey contextKey = "authenticated_user_id"

// ContextWithUserID attaches an authenticated requester identity to the
// request context. Set by the bearer-token middleware.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated requester identity, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok && id != ""
}
