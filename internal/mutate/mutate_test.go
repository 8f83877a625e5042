package mutate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	require.NoError(t, WriteFile(path, "hello"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFile_OverwritesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, WriteFile(path, "first"))
	require.NoError(t, WriteFile(path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteFile_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, WriteFile(path, "same content"))
	once, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, "same content"))
	twice, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyEdit_FirstOccurrenceOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("A-B-A"), 0644))

	require.NoError(t, ApplyEdit(path, "A", "X"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "X-B-A", string(data))
}

func TestApplyEdit_SnippetNotFoundLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.txt")
	original := []byte("unchanged content\n")
	require.NoError(t, os.WriteFile(path, original, 0644))

	err := ApplyEdit(path, "missing snippet", "replacement")
	assert.ErrorIs(t, err, ErrSnippetNotFound)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, original, data)
}

func TestApplyEdit_EmptySnippetRejected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	err := ApplyEdit(path, "", "prefix")
	assert.ErrorIs(t, err, ErrSnippetNotFound)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "content", string(data))
}

func TestApplyEdit_MissingFile(t *testing.T) {
	t.Parallel()

	err := ApplyEdit(filepath.Join(t.TempDir(), "absent.txt"), "a", "b")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestApplyEdit_ByteExactMatching(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x := 1\n"), 0644))

	// Whitespace differences must not match.
	err := ApplyEdit(path, "x :=  1", "x := 2")
	assert.ErrorIs(t, err, ErrSnippetNotFound)

	require.NoError(t, ApplyEdit(path, "x := 1", "x := 2"))
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "x := 2\n", string(data))
}
