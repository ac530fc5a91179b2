// Package memory holds per-session conversation transcripts.
//
// Transcripts live only for the process lifetime; persistent per-user state
// is the session package's job.
package memory

import "sync"

// Roles recorded in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one (role, text) entry in a session transcript.
type Turn struct {
	Role string
	Text string
}

// Conversation stores ordered turns keyed by session ID. All methods are safe
// for concurrent use; appends on the same session are serialized so the
// sequence never corrupts under concurrent delivery.
type Conversation struct {
	mu    sync.Mutex
	turns map[string][]Turn
}

// NewConversation creates an empty conversation store.
func NewConversation() *Conversation {
	return &Conversation{
		turns: make(map[string][]Turn),
	}
}

// Append records a turn at the end of the session's transcript. The session
// entry is created lazily on first append.
func (c *Conversation) Append(sessionID, role, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns[sessionID] = append(c.turns[sessionID], Turn{Role: role, Text: text})
}

// History returns a copy of the session's turns in insertion order. An
// unknown session returns an empty slice, not an error.
func (c *Conversation) History(sessionID string) []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	turns := c.turns[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear empties the session's transcript. Clearing an unknown session is a
// no-op.
func (c *Conversation) Clear(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.turns, sessionID)
}

// Len returns the number of turns recorded for a session.
func (c *Conversation) Len(sessionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns[sessionID])
}
