package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/siteloom/internal/models"
)

func TestFileStoreSave(t *testing.T) {
	base := t.TempDir()
	fs, err := NewFileStore(base)
	require.NoError(t, err)

	doc := &models.CombinedDocument{
		PageRecord:       models.PageRecord{URL: "https://acme.example.com/", Title: "Acme Widgets"},
		Domain:           "example.com",
		TotalURLsScraped: 3,
	}

	id, name, err := fs.Save(doc, "owner-1")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Acme Widgets", name)

	data, err := os.ReadFile(filepath.Join(base, "owner-1", id+".json"))
	require.NoError(t, err)

	var loaded models.CombinedDocument
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "Acme Widgets", loaded.Title)
	assert.Equal(t, 3, loaded.TotalURLsScraped)
}

func TestFileStoreNameFallsBackToDomain(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc := &models.CombinedDocument{Domain: "example.com"}
	_, name, err := fs.Save(doc, "owner")
	require.NoError(t, err)
	assert.Equal(t, "example.com", name)
}

func TestFileStoreSanitizesOwnerDir(t *testing.T) {
	base := t.TempDir()
	fs, err := NewFileStore(base)
	require.NoError(t, err)

	doc := &models.CombinedDocument{Domain: "example.com"}
	id, _, err := fs.Save(doc, `own/er:1`)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base, "own_er_1", id+".json"))
	assert.NoError(t, err)
}

func TestFileStoreUniqueIDs(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc := &models.CombinedDocument{Domain: "example.com"}
	first, _, err := fs.Save(doc, "o")
	require.NoError(t, err)
	second, _, err := fs.Save(doc, "o")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
