// Package interfaces defines the core types and contracts of the advisory
// certificate system. It provides the boundary between components without
// implementation details.
package interfaces

import (
	"strings"
	"time"
)

// DefaultLang is assumed when an issuance request carries no language tag.
// The advisory corpus is primarily Malayalam.
const DefaultLang = "ml"

// SourceCitation references one advisory document the answer was drawn from.
// It matches the shape returned by the retrieval collaborator.
type SourceCitation struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Payload is the structured content being certified. Every field must be
// reproducible byte-for-byte by canonical serialization; no field may change
// after signing.
type Payload struct {
	UserID     string           `json:"user_id,omitempty"`
	QueryText  string           `json:"query_text"`
	Lang       string           `json:"lang"`
	AnswerText string           `json:"answer_text"`
	Sources    []SourceCitation `json:"sources,omitempty"`
	IssuedAt   string           `json:"issued_at"`
}

// Validate checks the structural requirements shared by signing and
// verification: query and answer text must be present.
func (p Payload) Validate() error {
	if strings.TrimSpace(p.QueryText) == "" {
		return MissingFieldError("query_text")
	}
	if strings.TrimSpace(p.AnswerText) == "" {
		return MissingFieldError("answer_text")
	}
	return nil
}

// SignedCertificate is the immutable signed record of one advisory exchange.
// Verification succeeds iff payload and signature are unmodified since
// signing and the verifying key matches the signing key's pair.
type SignedCertificate struct {
	Payload   Payload `json:"payload"`
	Signature string  `json:"signature"`
	SignedAt  string  `json:"signed_at"`
}

// AuditEvent is the write-contract of the audit collaborator. One event is
// recorded per issuance attempt, success or failure.
type AuditEvent struct {
	UserID     string
	Lang       string
	InputText  string
	AnswerText string
	Timestamp  time.Time
	Outcome    string
}

// Audit outcomes.
const (
	AuditOutcomeIssued           = "issued"
	AuditOutcomeValidationFailed = "validation_failed"
	AuditOutcomeSigningFailed    = "signing_failed"
)

// Timestamp returns the given time formatted the way payloads and
// certificates carry timestamps: RFC 3339 in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
