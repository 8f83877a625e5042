package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath_RejectsParentReferences(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"../etc/passwd",
		"a/../../b",
		"..",
		"foo/bar/../baz",
	} {
		_, err := NormalizePath(raw)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", raw)
	}
}

func TestNormalizePath_AcceptsCleanPaths(t *testing.T) {
	t.Parallel()

	abs, err := NormalizePath("some/dir/file.go")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	// Dot-prefixed names are not parent references.
	_, err = NormalizePath("./file.go")
	assert.NoError(t, err)
}

func TestEligible_Denylist(t *testing.T) {
	t.Parallel()

	reason, ok := Eligible("a/package-lock.json", 10, nil)
	assert.False(t, ok)
	assert.Equal(t, SkipDenylisted, reason)
}

func TestEligible_Hidden(t *testing.T) {
	t.Parallel()

	reason, ok := Eligible("a/.secret", 10, nil)
	assert.False(t, ok)
	assert.Equal(t, SkipHidden, reason)
}

func TestEligible_Extension(t *testing.T) {
	t.Parallel()

	reason, ok := Eligible("img/logo.PNG", 10, nil)
	assert.False(t, ok)
	assert.Equal(t, SkipExtension, reason)

	_, ok = Eligible("src/main.go", 10, nil)
	assert.True(t, ok)
}

func TestEligible_SizeCeiling(t *testing.T) {
	t.Parallel()

	// Exactly the ceiling is accepted, one byte over is not.
	_, ok := Eligible("big.txt", MaxFileSize, nil)
	assert.True(t, ok)

	reason, ok := Eligible("big.txt", MaxFileSize+1, nil)
	assert.False(t, ok)
	assert.Equal(t, SkipOversize, reason)
}

func TestEligible_BinarySniff(t *testing.T) {
	t.Parallel()

	reason, ok := Eligible("blob.txt", 10, []byte{'a', 0x00, 'b'})
	assert.False(t, ok)
	assert.Equal(t, SkipBinary, reason)

	_, ok = Eligible("text.txt", 10, []byte("plain text"))
	assert.True(t, ok)
}

func TestReadSample_TreatsMissingFileAsBinary(t *testing.T) {
	t.Parallel()

	_, ok := readSample(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, ok)
}

func TestReadSample_EmptyFileIsText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	sample, ok := readSample(path)
	require.True(t, ok)
	assert.Empty(t, sample)
	assert.False(t, isBinary(sample))
}
