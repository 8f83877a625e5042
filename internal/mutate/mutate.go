// Package mutate performs the filesystem writes proposed by the model.
// Creates are full-content writes; edits are exact single-occurrence snippet
// replacements that fail closed when the snippet cannot be located.
package mutate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrFileNotFound is returned by ApplyEdit when the target file does
	// not exist. No write is performed.
	ErrFileNotFound = errors.New("file not found")

	// ErrSnippetNotFound is returned by ApplyEdit when the original
	// snippet does not occur in the file, or is empty. The file on disk
	// stays byte-identical.
	ErrSnippetNotFound = errors.New("original snippet not found in file")
)

// WriteFile creates or overwrites path with content, creating any missing
// parent directories. There is no backup and no confirmation here; the
// caller decides when a write is allowed.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating parent directories for %q: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

// ApplyEdit replaces the first occurrence of oldSnippet in path with
// newSnippet. Matching is byte-exact: no regex, no whitespace
// normalization. The occurrence check runs before any write, so a failed
// edit never leaves a partial file behind.
//
// An empty oldSnippet is rejected as ErrSnippetNotFound: replacing an empty
// string would silently prepend the new snippet, which is never what a
// stale proposal intended.
func ApplyEdit(path, oldSnippet, newSnippet string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", path, ErrFileNotFound)
		}
		return fmt.Errorf("reading %q: %w", path, err)
	}

	content := string(data)
	if oldSnippet == "" || !strings.Contains(content, oldSnippet) {
		return fmt.Errorf("%q: %w", path, ErrSnippetNotFound)
	}

	updated := strings.Replace(content, oldSnippet, newSnippet, 1)
	return WriteFile(path, updated)
}
