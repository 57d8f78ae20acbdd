package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestStoreLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.json")
	store := NewStore[testRecord](path)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestStoreLoadReinitializesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store := NewStore[testRecord](path)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	store := NewStore[testRecord](path)

	saved := []testRecord{
		{ID: "1", Title: "پایان نامه کارشناسی"},
		{ID: "2", Title: "second"},
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "    \"id\": \"1\"", "collections stay hand-editable")
	assert.Contains(t, content, "پایان نامه", "non-latin text is stored unescaped")
	assert.NotContains(t, content, `\u`)
}

func TestStoreSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore[testRecord](filepath.Join(dir, "records.json"))
	require.NoError(t, store.Save([]testRecord{{ID: "1"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "records.json", entries[0].Name())
}
