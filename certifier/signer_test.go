package certifier

import (
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashbavkar26/agri-backend/interfaces"
	"github.com/yashbavkar26/agri-backend/kms"
)

func testKeys(t *testing.T) *kms.FileKMS {
	t.Helper()
	k := kms.NewFileKMS(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, k.Bootstrap())
	return k
}

func testPayload() interfaces.Payload {
	return interfaces.Payload{
		UserID:     "farmer-17",
		QueryText:  "When to sow rice?",
		Lang:       "ml",
		AnswerText: "Sow after first monsoon rain.",
		Sources: []interfaces.SourceCitation{
			{ID: "adv-102", Title: "Rice sowing calendar", Excerpt: "Sowing begins with the monsoon."},
		},
		IssuedAt: "2025-06-01T10:00:00Z",
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	keys := testKeys(t)
	signer := NewSigner(keys)
	verifier := NewVerifier(keys)

	cert, err := signer.Sign(testPayload())
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Signature)
	assert.NotEmpty(t, cert.SignedAt)

	ok, err := verifier.Verify(cert)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_Deterministic(t *testing.T) {
	signer := NewSigner(testKeys(t))

	first, err := signer.Sign(testPayload())
	require.NoError(t, err)
	second, err := signer.Sign(testPayload())
	require.NoError(t, err)

	// PKCS#1 v1.5 over identical canonical bytes with the same key is
	// reproducible.
	assert.Equal(t, first.Signature, second.Signature)
}

func TestVerify_TamperDetection(t *testing.T) {
	keys := testKeys(t)
	signer := NewSigner(keys)
	verifier := NewVerifier(keys)

	cert, err := signer.Sign(testPayload())
	require.NoError(t, err)

	mutations := map[string]func(*interfaces.Payload){
		"user_id":     func(p *interfaces.Payload) { p.UserID = "farmer-18" },
		"query_text":  func(p *interfaces.Payload) { p.QueryText = "When to harvest rice?" },
		"lang":        func(p *interfaces.Payload) { p.Lang = "en" },
		"answer_text": func(p *interfaces.Payload) { p.AnswerText = "Sow before monsoon." },
		"issued_at":   func(p *interfaces.Payload) { p.IssuedAt = "2025-06-02T10:00:00Z" },
		"sources":     func(p *interfaces.Payload) { p.Sources[0].Excerpt = "edited" },
	}

	for field, mutate := range mutations {
		mutated := cert
		mutated.Payload.Sources = append([]interfaces.SourceCitation(nil), cert.Payload.Sources...)
		mutate(&mutated.Payload)

		ok, err := verifier.Verify(mutated)
		require.NoError(t, err, field)
		assert.False(t, ok, "mutation of %s must invalidate the signature", field)
	}
}

// The monsoon scenario: a changed answer fails against the original
// signature and passes against a fresh one.
func TestVerify_ChangedAnswerScenario(t *testing.T) {
	keys := testKeys(t)
	signer := NewSigner(keys)
	verifier := NewVerifier(keys)

	payload := interfaces.Payload{
		QueryText:  "When to sow rice?",
		AnswerText: "Sow after first monsoon rain.",
		Lang:       "ml",
		IssuedAt:   "2025-06-01T10:00:00Z",
	}
	cert, err := signer.Sign(payload)
	require.NoError(t, err)

	changed := cert
	changed.Payload.AnswerText = "Sow before monsoon."

	ok, err := verifier.Verify(changed)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh, err := signer.Sign(changed.Payload)
	require.NoError(t, err)
	ok, err = verifier.Verify(fresh)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_CorruptedSignature(t *testing.T) {
	keys := testKeys(t)
	signer := NewSigner(keys)
	verifier := NewVerifier(keys)

	cert, err := signer.Sign(testPayload())
	require.NoError(t, err)

	// Flip one byte of the decoded signature and re-encode: still valid
	// base64, so this must verify false rather than error.
	raw, err := base64.StdEncoding.DecodeString(cert.Signature)
	require.NoError(t, err)
	raw[0] ^= 0x01
	cert.Signature = base64.StdEncoding.EncodeToString(raw)

	ok, err := verifier.Verify(cert)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedInput(t *testing.T) {
	keys := testKeys(t)
	signer := NewSigner(keys)
	verifier := NewVerifier(keys)

	cert, err := signer.Sign(testPayload())
	require.NoError(t, err)

	t.Run("undecodable signature", func(t *testing.T) {
		bad := cert
		bad.Signature = "!!! not base64 !!!"
		_, err := verifier.Verify(bad)
		assert.ErrorIs(t, err, interfaces.ErrMalformedInput)
	})

	t.Run("empty signature", func(t *testing.T) {
		bad := cert
		bad.Signature = ""
		_, err := verifier.Verify(bad)
		assert.ErrorIs(t, err, interfaces.ErrMalformedInput)
	})

	t.Run("missing query text", func(t *testing.T) {
		bad := cert
		bad.Payload.QueryText = ""
		_, err := verifier.Verify(bad)
		assert.ErrorIs(t, err, interfaces.ErrMalformedInput)
	})

	t.Run("missing answer text", func(t *testing.T) {
		bad := cert
		bad.Payload.AnswerText = ""
		_, err := verifier.Verify(bad)
		assert.ErrorIs(t, err, interfaces.ErrMalformedInput)
	})
}

func TestSign_BeforeBootstrap(t *testing.T) {
	k := kms.NewFileKMS(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	signer := NewSigner(k)

	_, err := signer.Sign(testPayload())
	assert.ErrorIs(t, err, interfaces.ErrSigning)
}

func TestTruncateSignature(t *testing.T) {
	assert.Equal(t, "short", TruncateSignature("short"))

	long := base64.StdEncoding.EncodeToString(make([]byte, 64))
	assert.Len(t, TruncateSignature(long), SignatureFragmentLen)
	assert.Equal(t, long[:SignatureFragmentLen], TruncateSignature(long))
}
