package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string           `json:"name"`
	Count int64            `json:"count"`
	Items map[string]int64 `json:"items"`
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	var doc testDoc
	err := Load(path, &doc)

	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var doc testDoc
	err := Load(path, &doc)

	require.Error(t, err)
	var corrupt *CorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, path, corrupt.Path)
	assert.NotErrorIs(t, err, ErrNotExist)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	in := testDoc{
		Name:  "example",
		Count: 42,
		Items: map[string]int64{"bass": 3, "lockpick": 1},
	}
	require.NoError(t, Save(path, in))

	var out testDoc
	require.NoError(t, Load(path, &out))
	assert.Equal(t, in, out)

	// The temp file must not survive a successful save.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSave_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, Save(path, testDoc{Name: "first"}))
	require.NoError(t, Save(path, testDoc{Name: "second"}))

	var out testDoc
	require.NoError(t, Load(path, &out))
	assert.Equal(t, "second", out.Name)
}
