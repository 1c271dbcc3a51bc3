package certifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yashbavkar26/agri-backend/interfaces"
	"github.com/yashbavkar26/agri-backend/metrics"
)

// IssueRequest carries the issuer-supplied fields of one issuance.
// QueryText and AnswerText are required; everything else is optional.
type IssueRequest struct {
	UserID     string
	QueryText  string
	Lang       string
	AnswerText string
	Sources    []interfaces.SourceCitation
}

// IssueResult combines the authoritative signed record with the reference to
// its rendered artifact. ArtifactRef is empty when rendering failed; the
// certificate is valid regardless.
type IssueResult struct {
	Signed      interfaces.SignedCertificate
	ArtifactRef string
}

// Issuer orchestrates certificate issuance: request validation, payload
// assembly, signing, artifact rendering, and audit recording. The signed
// record's correctness is never sacrificed to keep a secondary step
// succeeding; renderer and audit failures are logged and swallowed.
type Issuer struct {
	signer   *Signer
	renderer interfaces.Renderer
	audit    interfaces.AuditRecorder
	log      *slog.Logger
	now      func() time.Time
}

// NewIssuer creates an issuance orchestrator. The renderer and audit
// recorder may not be nil; use the no-op implementations if a deployment
// runs without them.
func NewIssuer(signer *Signer, renderer interfaces.Renderer, audit interfaces.AuditRecorder, log *slog.Logger) *Issuer {
	return &Issuer{
		signer:   signer,
		renderer: renderer,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Issue validates the request, assembles and signs the payload, renders the
// artifact, and records the audit event. Validation failures are wrapped
// with interfaces.ErrValidation, signing failures with interfaces.ErrSigning;
// both abort only this request, never the process.
func (i *Issuer) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	issuedAt := i.now()

	if err := i.validate(req); err != nil {
		metrics.ValidationFailures.Inc()
		i.recordAudit(ctx, req, issuedAt, interfaces.AuditOutcomeValidationFailed)
		return nil, err
	}

	payload := interfaces.Payload{
		UserID:     req.UserID,
		QueryText:  req.QueryText,
		Lang:       req.Lang,
		AnswerText: req.AnswerText,
		Sources:    req.Sources,
		IssuedAt:   interfaces.Timestamp(issuedAt),
	}
	if payload.Lang == "" {
		payload.Lang = interfaces.DefaultLang
	}

	signed, err := i.signer.Sign(payload)
	if err != nil {
		metrics.SigningFailures.Inc()
		i.recordAudit(ctx, req, issuedAt, interfaces.AuditOutcomeSigningFailed)
		return nil, err
	}

	// The rendered document is a convenience for humans; its failure must
	// never fail the issuance of the authoritative signed record.
	artifactRef, err := i.renderer.Render(ctx, signed.Payload, TruncateSignature(signed.Signature))
	if err != nil {
		metrics.RenderFailures.Inc()
		i.log.Warn("Certificate artifact rendering failed", "err", err, "userID", req.UserID)
		artifactRef = ""
	}

	i.recordAudit(ctx, req, issuedAt, interfaces.AuditOutcomeIssued)
	metrics.CertificatesIssued.Inc()

	return &IssueResult{Signed: signed, ArtifactRef: artifactRef}, nil
}

func (i *Issuer) validate(req IssueRequest) error {
	if req.QueryText == "" {
		return fmt.Errorf("%w: query_text is required", interfaces.ErrValidation)
	}
	if req.AnswerText == "" {
		return fmt.Errorf("%w: answer_text is required", interfaces.ErrValidation)
	}
	return nil
}

func (i *Issuer) recordAudit(ctx context.Context, req IssueRequest, ts time.Time, outcome string) {
	event := interfaces.AuditEvent{
		UserID:     req.UserID,
		Lang:       req.Lang,
		InputText:  req.QueryText,
		AnswerText: req.AnswerText,
		Timestamp:  ts.UTC(),
		Outcome:    outcome,
	}
	if err := i.audit.Record(ctx, event); err != nil {
		i.log.Warn("Audit record failed", "err", err, "outcome", outcome)
	}
}
