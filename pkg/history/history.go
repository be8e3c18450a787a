// Package history holds the shared conversation log the pipeline feeds
// back into every language-model request.
package history

import "sync"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role-tagged message. Immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Log is an ordered, size-bounded conversation history. Appending past the
// bound evicts the oldest turn first. A single Log is shared process-wide
// across requests; all access is serialized so an append plus the snapshot
// that follows it never observe a torn state.
type Log struct {
	mu    sync.Mutex
	max   int
	turns []Turn
}

// NewLog creates a log that never grows beyond max turns.
// max must be positive.
func NewLog(max int) *Log {
	if max <= 0 {
		panic("history: max must be positive")
	}

	return &Log{
		max:   max,
		turns: make([]Turn, 0, max),
	}
}

// Append adds a turn to the end of the log, evicting from the front
// until the bound holds.
func (l *Log) Append(role Role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, Turn{Role: role, Content: content})
	if n := len(l.turns) - l.max; n > 0 {
		l.turns = append(l.turns[:0], l.turns[n:]...)
	}
}

// Snapshot returns a copy of the current history, oldest first. The copy
// reflects every append that completed before the call.
func (l *Log) Snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len reports the current number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.turns)
}
