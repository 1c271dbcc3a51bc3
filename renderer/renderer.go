// Package renderer produces the human-readable certificate artifact that
// accompanies a signed advisory certificate. The rendered document is a
// convenience for farmers and extension officers; it carries no cryptographic
// weight and embeds only a truncated display fragment of the signature.
package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

// FileRenderer renders certificates as Markdown documents and stores them
// through an artifact storage backend. Artifact names are UUID-based so
// concurrent issuances never collide, regardless of wall-clock resolution.
type FileRenderer struct {
	store interfaces.StorageBackend
	log   *slog.Logger
}

// NewFileRenderer creates a renderer writing through the given backend.
func NewFileRenderer(store interfaces.StorageBackend, log *slog.Logger) *FileRenderer {
	return &FileRenderer{store: store, log: log}
}

// Render writes a Markdown document for the payload and returns its artifact
// reference. Rendering is side-effect-free with respect to the signed record,
// so callers may safely retry it.
func (r *FileRenderer) Render(ctx context.Context, payload interfaces.Payload, truncatedSig string) (string, error) {
	name := fmt.Sprintf("certificate-%s.md", uuid.New())

	ref, err := r.store.Store(ctx, name, renderMarkdown(payload, truncatedSig))
	if err != nil {
		return "", fmt.Errorf("could not store certificate artifact: %w", err)
	}

	r.log.Debug("Rendered certificate artifact", "ref", ref)
	return ref, nil
}

func renderMarkdown(payload interfaces.Payload, truncatedSig string) []byte {
	var b strings.Builder

	b.WriteString("# Advisory Certificate\n\n")
	if payload.UserID != "" {
		fmt.Fprintf(&b, "**Requested by:** %s\n\n", payload.UserID)
	}
	fmt.Fprintf(&b, "**Issued at:** %s\n\n", payload.IssuedAt)
	fmt.Fprintf(&b, "**Language:** %s\n\n", payload.Lang)

	fmt.Fprintf(&b, "## Question\n\n%s\n\n", payload.QueryText)
	fmt.Fprintf(&b, "## Advisory\n\n%s\n", payload.AnswerText)

	if len(payload.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		for _, src := range payload.Sources {
			title := src.Title
			if title == "" {
				title = src.ID
			}
			fmt.Fprintf(&b, "- **%s**", title)
			if src.Excerpt != "" {
				fmt.Fprintf(&b, ": %s", src.Excerpt)
			}
			b.WriteString("\n")
		}
	}

	// Display fragment only. The full signature lives in the signed record
	// and is the only thing verification checks.
	fmt.Fprintf(&b, "\n---\nSignature fragment: `%s…`\n", truncatedSig)

	return []byte(b.String())
}
