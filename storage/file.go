package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yashbavkar26/agri-backend/interfaces"
)

// FileBackend implements artifact storage using the local file system.
// Artifacts are written once under their unique name and never edited.
type FileBackend struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a file storage backend rooted at the specified base
// directory, creating it if needed.
func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	return &FileBackend{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Store saves an artifact under its name and returns the name as the
// artifact reference.
func (b *FileBackend) Store(ctx context.Context, name string, data []byte) (string, error) {
	filePath, err := b.getFilePath(name)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	b.log.Debug("Stored artifact",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return name, nil
}

// Fetch retrieves an artifact by its reference.
// Returns ErrArtifactNotFound if the file doesn't exist.
func (b *FileBackend) Fetch(ctx context.Context, name string) ([]byte, error) {
	filePath, err := b.getFilePath(name)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, interfaces.ErrArtifactNotFound
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return data, nil
}

// Available checks if the backend is accessible by verifying the base
// directory exists.
func (b *FileBackend) Available(ctx context.Context) bool {
	_, err := os.Stat(b.baseDir)
	if err != nil {
		b.log.Debug("File backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.baseDir))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}

// getFilePath resolves an artifact name inside the base directory. Names
// containing path separators are rejected so references from the HTTP layer
// cannot escape the artifacts directory.
func (b *FileBackend) getFilePath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid artifact name: %q", name)
	}
	return filepath.Join(b.baseDir, name), nil
}
