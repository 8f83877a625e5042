// Package session owns the conversation transcript for a single forge run.
// The transcript is the literal prompt history: an ordered, append-only log
// of role/content entries that is replayed to the model on every turn.
package session

import (
	"github.com/google/uuid"
)

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is a single transcript record. Entries are never mutated or removed
// once appended; insertion order is the prompt order.
type Entry struct {
	Role    Role
	Content string
}

// Transcript accumulates the conversation for one session. It is owned by
// the interactive loop and passed explicitly to components that need it;
// there is no package-level state. The loop is single-threaded, so the
// transcript carries no locking.
type Transcript struct {
	id      string
	entries []Entry
}

// New creates an empty transcript with a fresh session id.
func New() *Transcript {
	return &Transcript{id: uuid.NewString()}
}

// ID returns the session identifier used for log correlation.
func (t *Transcript) ID() string {
	return t.id
}

// Append adds an entry to the end of the transcript. It never fails.
func (t *Transcript) Append(role Role, content string) {
	t.entries = append(t.entries, Entry{Role: role, Content: content})
}

// Snapshot returns a copy of the full history in append order. The copy
// keeps callers from mutating the log through the returned slice.
func (t *Transcript) Snapshot() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of entries appended so far.
func (t *Transcript) Len() int {
	return len(t.entries)
}
