package certifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

type stubRenderer struct {
	mu   sync.Mutex
	fail bool
	next int
	refs []string
}

func (r *stubRenderer) Render(ctx context.Context, payload interfaces.Payload, truncatedSig string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return "", errors.New("renderer unavailable")
	}
	r.next++
	ref := fmt.Sprintf("certificate-%04d.md", r.next)
	r.refs = append(r.refs, ref)
	return ref, nil
}

type stubRecorder struct {
	mu     sync.Mutex
	fail   bool
	events []interfaces.AuditEvent
}

func (r *stubRecorder) Record(ctx context.Context, event interfaces.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("audit store unavailable")
	}
	r.events = append(r.events, event)
	return nil
}

func newTestIssuer(t *testing.T) (*Issuer, *Verifier, *stubRenderer, *stubRecorder) {
	t.Helper()
	keys := testKeys(t)
	renderer := &stubRenderer{}
	recorder := &stubRecorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewIssuer(NewSigner(keys), renderer, recorder, log), NewVerifier(keys), renderer, recorder
}

func TestIssue_Success(t *testing.T) {
	issuer, verifier, _, recorder := newTestIssuer(t)

	result, err := issuer.Issue(context.Background(), IssueRequest{
		UserID:     "farmer-17",
		QueryText:  "When to sow rice?",
		Lang:       "ml",
		AnswerText: "Sow after first monsoon rain.",
		Sources:    []interfaces.SourceCitation{{ID: "adv-102", Title: "Rice sowing calendar"}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ArtifactRef)
	assert.Equal(t, "ml", result.Signed.Payload.Lang)
	assert.NotEmpty(t, result.Signed.Payload.IssuedAt)

	ok, err := verifier.Verify(result.Signed)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, interfaces.AuditOutcomeIssued, recorder.events[0].Outcome)
	assert.Equal(t, "When to sow rice?", recorder.events[0].InputText)
}

func TestIssue_DefaultLang(t *testing.T) {
	issuer, _, _, _ := newTestIssuer(t)

	result, err := issuer.Issue(context.Background(), IssueRequest{
		QueryText:  "When to sow rice?",
		AnswerText: "Sow after first monsoon rain.",
	})
	require.NoError(t, err)
	assert.Equal(t, interfaces.DefaultLang, result.Signed.Payload.Lang)
}

func TestIssue_Validation(t *testing.T) {
	issuer, _, _, recorder := newTestIssuer(t)

	_, err := issuer.Issue(context.Background(), IssueRequest{AnswerText: "an answer"})
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	_, err = issuer.Issue(context.Background(), IssueRequest{QueryText: "a question"})
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	// Failed attempts are audited too.
	require.Len(t, recorder.events, 2)
	for _, ev := range recorder.events {
		assert.Equal(t, interfaces.AuditOutcomeValidationFailed, ev.Outcome)
	}
}

func TestIssue_RenderFailureIsNonFatal(t *testing.T) {
	issuer, verifier, renderer, recorder := newTestIssuer(t)
	renderer.fail = true

	result, err := issuer.Issue(context.Background(), IssueRequest{
		QueryText:  "When to sow rice?",
		AnswerText: "Sow after first monsoon rain.",
	})
	require.NoError(t, err)

	assert.Empty(t, result.ArtifactRef)

	ok, err := verifier.Verify(result.Signed)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, interfaces.AuditOutcomeIssued, recorder.events[0].Outcome)
}

func TestIssue_AuditFailureIsNonFatal(t *testing.T) {
	issuer, verifier, _, recorder := newTestIssuer(t)
	recorder.fail = true

	result, err := issuer.Issue(context.Background(), IssueRequest{
		QueryText:  "When to sow rice?",
		AnswerText: "Sow after first monsoon rain.",
	})
	require.NoError(t, err)

	ok, err := verifier.Verify(result.Signed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssue_Concurrent(t *testing.T) {
	issuer, verifier, _, _ := newTestIssuer(t)

	const n = 8
	results := make([]*IssueResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = issuer.Issue(context.Background(), IssueRequest{
				UserID:     fmt.Sprintf("farmer-%d", i),
				QueryText:  fmt.Sprintf("Question %d?", i),
				AnswerText: fmt.Sprintf("Answer %d.", i),
			})
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotEmpty(t, results[i].ArtifactRef)
		assert.False(t, seen[results[i].ArtifactRef], "artifact references must not collide")
		seen[results[i].ArtifactRef] = true

		ok, err := verifier.Verify(results[i].Signed)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
