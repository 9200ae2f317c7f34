// Package storage persists finished combined documents. The engine itself
// never persists anything; it hands a document to a Store and moves on.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/amosWeiskopf/siteloom/internal/models"
	"github.com/amosWeiskopf/siteloom/pkg/utils"
)

// Store accepts a finished document plus an owner identifier and returns a
// durable identifier and display name.
type Store interface {
	Save(doc *models.CombinedDocument, ownerID string) (id string, name string, err error)
}

// FileStore writes documents as JSON files under a base directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save marshals the document and writes it to {base}/{owner}/{uuid}.json.
// The display name is the document title, falling back to its domain.
func (s *FileStore) Save(doc *models.CombinedDocument, ownerID string) (string, string, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.baseDir, utils.SanitizeFilename(ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create owner dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644); err != nil {
		return "", "", fmt.Errorf("write document: %w", err)
	}

	name := doc.Title
	if name == "" {
		name = doc.Domain
	}
	return id, name, nil
}
