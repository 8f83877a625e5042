// Package ingest walks local file trees and feeds eligible file contents
// into the session transcript as model context. Filtering is deliberately
// conservative: build output, VCS metadata, lockfiles, binaries and oversize
// files never reach the model.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Resource limits. A file of exactly MaxFileSize is still eligible.
const (
	MaxFileSize = 5_000_000
	MaxFiles    = 1000

	// binarySniffLen is how many leading bytes are sampled for the NUL check.
	binarySniffLen = 1024
)

// ErrInvalidPath is returned when a user-supplied path carries a parent
// directory reference. The check runs before any filesystem access.
var ErrInvalidPath = fmt.Errorf("path contains parent directory references")

// SkipReason explains why a path was excluded from ingestion. Skips are
// observational, never fatal; they accumulate in the Report.
type SkipReason string

const (
	SkipDenylisted SkipReason = "denylisted"
	SkipHidden     SkipReason = "hidden"
	SkipExtension  SkipReason = "excluded extension"
	SkipOversize   SkipReason = "oversize"
	SkipBinary     SkipReason = "binary"
	SkipUnreadable SkipReason = "unreadable"
)

// excludedNames lists directory and file base names that are pruned during
// traversal: build output, dependency trees, VCS metadata, caches, lockfiles
// and environment files. Matching is case-sensitive.
var excludedNames = map[string]struct{}{
	".DS_Store": {}, "Thumbs.db": {}, ".gitignore": {}, ".python-version": {},
	"uv.lock": {}, ".uv": {}, "uvenv": {}, ".uvenv": {}, ".venv": {}, "venv": {},
	"__pycache__": {}, ".pytest_cache": {}, ".coverage": {}, ".mypy_cache": {},
	"node_modules": {}, "package-lock.json": {}, "yarn.lock": {}, "pnpm-lock.yaml": {},
	".next": {}, ".nuxt": {}, "dist": {}, "build": {}, ".cache": {}, ".parcel-cache": {},
	".turbo": {}, ".vercel": {}, ".output": {}, ".contentlayer": {}, "out": {},
	"coverage": {}, ".nyc_output": {}, "storybook-static": {}, ".env": {},
	".env.local": {}, ".env.development": {}, ".env.production": {},
	".git": {}, ".svn": {}, ".hg": {}, "CVS": {},
}

// excludedExtensions lists lowercase extensions for binary and asset files
// that are never useful as text context.
var excludedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {}, ".svg": {},
	".webp": {}, ".avif": {}, ".mp4": {}, ".webm": {}, ".mov": {}, ".mp3": {},
	".wav": {}, ".ogg": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".7z": {},
	".rar": {}, ".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {},
	".pptx": {}, ".pyc": {}, ".pyo": {}, ".pyd": {}, ".egg": {}, ".whl": {},
	".uv": {}, ".uvenv": {}, ".db": {}, ".sqlite": {}, ".sqlite3": {}, ".log": {},
	".idea": {}, ".vscode": {}, ".map": {}, ".chunk.js": {}, ".chunk.css": {},
	".min.js": {}, ".min.css": {}, ".bundle.js": {}, ".bundle.css": {},
	".cache": {}, ".tmp": {}, ".temp": {}, ".ttf": {}, ".otf": {}, ".woff": {},
	".woff2": {}, ".eot": {},
}

// NormalizePath resolves a user-supplied path to absolute form, rejecting
// any path that references a parent directory. Validation is purely lexical
// so no filesystem access happens for a rejected path.
func NormalizePath(raw string) (string, error) {
	for _, part := range strings.Split(filepath.ToSlash(raw), "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid path %q: %w", raw, ErrInvalidPath)
		}
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %v: %w", raw, err, ErrInvalidPath)
	}
	return abs, nil
}

// excludedName reports whether a base name is denylisted or hidden. Applied
// to directories during traversal it prunes the whole subtree.
func excludedName(name string) (SkipReason, bool) {
	if _, ok := excludedNames[name]; ok {
		return SkipDenylisted, true
	}
	if strings.HasPrefix(name, ".") {
		return SkipHidden, true
	}
	return "", false
}

// Eligible applies the full filter chain to a regular file: name denylist,
// hidden, extension denylist, size ceiling, binary sniff. First match wins.
func Eligible(path string, size int64, sample []byte) (SkipReason, bool) {
	name := filepath.Base(path)
	if reason, excluded := excludedName(name); excluded {
		return reason, false
	}
	if _, ok := excludedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return SkipExtension, false
	}
	if size > MaxFileSize {
		return SkipOversize, false
	}
	if isBinary(sample) {
		return SkipBinary, false
	}
	return "", true
}

func isBinary(sample []byte) bool {
	for _, b := range sample {
		if b == 0 {
			return true
		}
	}
	return false
}

// readSample reads up to binarySniffLen leading bytes. Any error while
// sampling is treated as binary content, never propagated.
func readSample(path string) ([]byte, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	buf := make([]byte, binarySniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, false
	}
	return buf[:n], true
}
