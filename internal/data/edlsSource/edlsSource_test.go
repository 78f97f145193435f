package edlsSource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "edls.json")

	items, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestLoad_ParsesItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edls.json")
	body := `[{"id": 3, "title": "T", "content": "C", "aiAnalysis": {"summary": "S", "keyPoints": ["a"]}, "createdAt": "2024-01-01"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	items, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].Id)
	assert.Equal(t, "S", items[0].AIAnalysis.Summary)
	assert.Equal(t, "2024-01-01", items[0].CreatedAt)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edls.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := NewFileSource(path).Load(context.Background())
	assert.Error(t, err)
}
