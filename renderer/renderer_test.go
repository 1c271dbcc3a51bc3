package renderer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashbavkar26/agri-backend/interfaces"
	"github.com/yashbavkar26/agri-backend/storage"
)

func newTestRenderer(t *testing.T) (*FileRenderer, *storage.FileBackend) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := storage.NewFileBackend(t.TempDir(), log)
	require.NoError(t, err)
	return NewFileRenderer(backend, log), backend
}

func TestRender_WritesDocument(t *testing.T) {
	r, backend := newTestRenderer(t)
	ctx := context.Background()

	payload := interfaces.Payload{
		UserID:     "farmer-17",
		QueryText:  "When to sow rice?",
		Lang:       "ml",
		AnswerText: "Sow after first monsoon rain.",
		Sources:    []interfaces.SourceCitation{{ID: "adv-102", Title: "Rice sowing calendar", Excerpt: "Sowing begins with the monsoon."}},
		IssuedAt:   "2025-06-01T10:00:00Z",
	}

	ref, err := r.Render(ctx, payload, "AbCdEfGhIjKlMnOpQrStUvWx")
	require.NoError(t, err)
	assert.Contains(t, ref, "certificate-")
	assert.Contains(t, ref, ".md")

	data, err := backend.Fetch(ctx, ref)
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, "When to sow rice?")
	assert.Contains(t, doc, "Sow after first monsoon rain.")
	assert.Contains(t, doc, "Rice sowing calendar")
	assert.Contains(t, doc, "AbCdEfGhIjKlMnOpQrStUvWx")
	assert.Contains(t, doc, "farmer-17")
}

func TestRender_UniqueReferences(t *testing.T) {
	r, _ := newTestRenderer(t)
	payload := interfaces.Payload{
		QueryText:  "When to sow rice?",
		Lang:       "ml",
		AnswerText: "Sow after first monsoon rain.",
		IssuedAt:   "2025-06-01T10:00:00Z",
	}

	const n = 16
	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref, err := r.Render(context.Background(), payload, "fragment")
			assert.NoError(t, err)
			refs[i] = ref
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, ref := range refs {
		assert.False(t, seen[ref], "artifact references must be unique")
		seen[ref] = true
	}
}
