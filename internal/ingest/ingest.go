package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"forge/internal/session"

	"go.uber.org/zap"
)

// errWalkLimit stops the tree walk once the accepted-file ceiling is hit.
var errWalkLimit = errors.New("ingest: file ceiling reached")

// Ingestor feeds local files into a transcript. All paths pass through
// NormalizePath before any filesystem access.
type Ingestor struct {
	transcript *session.Transcript
	log        *zap.Logger
	maxFiles   int
}

// Option adjusts an Ingestor. Used by tests to lower the file ceiling.
type Option func(*Ingestor)

// WithMaxFiles overrides the accepted-file ceiling for a directory walk.
func WithMaxFiles(n int) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.maxFiles = n
		}
	}
}

// New creates an Ingestor appending into the given transcript.
func New(transcript *session.Transcript, log *zap.Logger, opts ...Option) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	ing := &Ingestor{
		transcript: transcript,
		log:        log.Named("ingest"),
		maxFiles:   MaxFiles,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// AddPath validates a user-supplied path and routes it: directories go
// through the tree walk, regular files are ingested directly. For a single
// file the returned report holds exactly that path.
func (i *Ingestor) AddPath(raw string) (*Report, error) {
	path, err := NormalizePath(raw)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot add %q: %w", raw, err)
	}

	if info.IsDir() {
		return i.IngestDir(path)
	}

	if err := i.addFile(path); err != nil {
		return nil, err
	}
	report := &Report{}
	report.add(path)
	return report, nil
}

// IngestDir walks the tree under root, applying the filter chain per entry.
// Denylisted and hidden directories are pruned before descent, so excluded
// trees are never opened. Read failures demote a file to skipped rather
// than aborting the walk. The walk halts once maxFiles files were accepted;
// the report marks that as a truncation.
func (i *Ingestor) IngestDir(root string) (*Report, error) {
	report := &Report{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, never fatal.
			if path != root {
				report.skip(path, SkipUnreadable)
				return nil
			}
			return err
		}

		if d.IsDir() {
			// The traversal root is exempt from the hidden check so that
			// ingesting "." works from inside a dot-directory.
			if path == root {
				return nil
			}
			if reason, excluded := excludedName(d.Name()); excluded {
				report.skip(path, reason)
				return filepath.SkipDir
			}
			return nil
		}

		if len(report.Added) >= i.maxFiles {
			report.Truncated = true
			return errWalkLimit
		}

		info, err := d.Info()
		if err != nil {
			report.skip(path, SkipUnreadable)
			return nil
		}

		// Cheap checks (name, extension, size) run before the file is
		// opened; the binary sniff is the only one that touches content.
		if reason, ok := Eligible(path, info.Size(), nil); !ok {
			report.skip(path, reason)
			return nil
		}

		sample, ok := readSample(path)
		if !ok || isBinary(sample) {
			report.skip(path, SkipBinary)
			return nil
		}

		if err := i.addFile(path); err != nil {
			report.skip(path, SkipUnreadable)
			return nil
		}
		report.add(path)
		return nil
	})

	if err != nil && !errors.Is(err, errWalkLimit) {
		return report, fmt.Errorf("walking %q: %w", root, err)
	}

	i.log.Info("directory ingested",
		zap.String("root", root),
		zap.Int("added", len(report.Added)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("truncated", report.Truncated))
	return report, nil
}

// addFile reads a file as text and appends it to the transcript as a system
// entry. The transcript holds a copy of the content; later edits on disk do
// not rewrite history.
func (i *Ingestor) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", path, err)
	}
	i.transcript.Append(session.RoleSystem,
		fmt.Sprintf("Content of file '%s':\n\n%s", path, data))
	i.log.Debug("file ingested", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
