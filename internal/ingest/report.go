package ingest

import "fmt"

// Skipped records one excluded path together with a human-readable reason.
type Skipped struct {
	Path   string
	Reason SkipReason
}

// Report is the outcome of one directory ingestion. It is observational
// only; nothing here is persisted.
type Report struct {
	// Added lists paths whose content entered the transcript, in walk order.
	Added []string

	// Skipped lists every excluded path with its reason.
	Skipped []Skipped

	// Truncated is set when the walk stopped early at the file ceiling.
	// A truncated ingest is a documented degradation, not an error.
	Truncated bool
}

func (r *Report) add(path string) {
	r.Added = append(r.Added, path)
}

func (r *Report) skip(path string, reason SkipReason) {
	r.Skipped = append(r.Skipped, Skipped{Path: path, Reason: reason})
}

// Summary renders a short one-line description for status output.
func (r *Report) Summary() string {
	s := fmt.Sprintf("added %d file(s), skipped %d", len(r.Added), len(r.Skipped))
	if r.Truncated {
		s += " (file ceiling reached, walk stopped early)"
	}
	return s
}
