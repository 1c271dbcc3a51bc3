package certhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yashbavkar26/agri-backend/api"
	"github.com/yashbavkar26/agri-backend/certifier"
	"github.com/yashbavkar26/agri-backend/interfaces"
	"github.com/yashbavkar26/agri-backend/metrics"
)

// Handler processes HTTP requests for the advisory certificate service:
// issuance, verification, public key distribution, and artifact retrieval.
type Handler struct {
	issuer    *certifier.Issuer
	verifier  *certifier.Verifier
	keys      interfaces.KeyProvider
	artifacts interfaces.StorageBackend
	log       *slog.Logger
}

// NewHandler creates a new HTTP request handler for the certificate service.
func NewHandler(issuer *certifier.Issuer, verifier *certifier.Verifier, keys interfaces.KeyProvider, artifacts interfaces.StorageBackend, log *slog.Logger) *Handler {
	return &Handler{
		issuer:    issuer,
		verifier:  verifier,
		keys:      keys,
		artifacts: artifacts,
		log:       log,
	}
}

// RegisterRoutes configures the HTTP router with certificate endpoints:
//   - POST /api/v1/certificates - issue a certificate
//   - POST /api/v1/certificates/verify - verify a signed certificate
//   - GET  /api/v1/certificates/signing-key - public verification key
//   - GET  /api/v1/artifacts/{artifact_ref} - rendered artifact document
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/certificates", h.HandleIssue)
	r.Post("/api/v1/certificates/verify", h.HandleVerify)
	r.Get("/api/v1/certificates/signing-key", h.HandleSigningKey)
	r.Get("/api/v1/artifacts/{artifact_ref}", h.HandleArtifact)
}

// HandleIssue processes a certificate issuance request.
//
// Request body: JSON-encoded api.IssuanceRequest.
// Response: JSON-encoded api.IssuanceResponse.
//
// Status codes:
//   - 200 OK: certificate issued (artifact_ref may be empty if rendering failed)
//   - 400 Bad Request: undecodable body or missing required fields
//   - 500 Internal Server Error: signing failure
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req api.IssuanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("Undecodable issuance request", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// An authenticated identity overrides whatever the body claims.
	if userID, ok := api.UserIDFromContext(r.Context()); ok {
		req.UserID = userID
	}

	result, err := h.issuer.Issue(r.Context(), certifier.IssueRequest{
		UserID:     req.UserID,
		QueryText:  req.QueryText,
		Lang:       req.Lang,
		AnswerText: req.AnswerText,
		Sources:    req.Sources,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrValidation) {
			h.log.Debug("Issuance request rejected", "err", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("Certificate issuance failed", "err", err, "userID", req.UserID)
		http.Error(w, "Certificate issuance failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.IssuanceResponse{
		Signed:      result.Signed,
		ArtifactRef: result.ArtifactRef,
	})
}

// HandleVerify checks a posted signed certificate against the service's
// public key.
//
// Request body: JSON-encoded interfaces.SignedCertificate.
// Response: JSON-encoded api.VerificationResponse.
//
// Status codes:
//   - 200 OK: verification performed; body reports the boolean outcome.
//     A mismatched signature is a 200 with valid=false, not an error.
//   - 400 Bad Request: structurally invalid input (undecodable body or
//     signature encoding, missing required payload fields)
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var cert interfaces.SignedCertificate
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		metrics.Verifications.WithLabelValues("malformed").Inc()
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	valid, err := h.verifier.Verify(cert)
	if err != nil {
		if errors.Is(err, interfaces.ErrMalformedInput) {
			metrics.Verifications.WithLabelValues("malformed").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("Verification failed", "err", err)
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}

	if valid {
		metrics.Verifications.WithLabelValues("valid").Inc()
	} else {
		metrics.Verifications.WithLabelValues("invalid").Inc()
	}

	h.writeJSON(w, api.VerificationResponse{Valid: valid})
}

// HandleSigningKey returns the service's public verification key in PKIX PEM
// encoding so third parties can verify certificates independently.
func (h *Handler) HandleSigningKey(w http.ResponseWriter, r *http.Request) {
	pubPEM, err := h.keys.PublicKeyPEM()
	if err != nil {
		h.log.Error("Failed to get public key", "err", err)
		http.Error(w, "Signing key unavailable", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, api.SigningKeyResponse{PublicKey: string(pubPEM)})
}

// HandleArtifact serves a rendered certificate document.
//
// Status codes:
//   - 200 OK: artifact found, served as text/markdown
//   - 404 Not Found: no artifact under this reference
func (h *Handler) HandleArtifact(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "artifact_ref")

	data, err := h.artifacts.Fetch(r.Context(), ref)
	if err != nil {
		if errors.Is(err, interfaces.ErrArtifactNotFound) {
			http.Error(w, "Artifact not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to fetch artifact", "err", err, "ref", ref)
		http.Error(w, "Failed to fetch artifact", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
