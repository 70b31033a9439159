package domain

import "context"

// SessionStore defines session persistence.
type SessionStore interface {
	// Create is an idempotent get-or-create: if the id is already
	// present it returns the existing record unmodified.
	Create(ctx context.Context, id SessionID) (*Session, error)

	// Get returns ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, id SessionID) (*Session, error)

	// Update persists a mutated session. Returns ErrSessionNotFound if
	// the session does not exist.
	Update(ctx context.Context, session *Session) error

	// Delete returns ErrSessionNotFound for unknown ids, never a silent
	// no-op.
	Delete(ctx context.Context, id SessionID) error
}

// HistoryStore defines conversation-history persistence. Its lifecycle
// is independent from SessionStore: entries appear lazily on first use
// and deletion of a missing id silently succeeds.
type HistoryStore interface {
	GetOrCreate(ctx context.Context, id SessionID) ([]Message, error)
	Append(ctx context.Context, id SessionID, msgs ...Message) error
	Delete(ctx context.Context, id SessionID) error
}

// TextGenerator is the raw LLM boundary: given a system prompt, prior
// conversation and the current prompt, produce text.
type TextGenerator interface {
	Generate(ctx context.Context, system string, history []Message, prompt string) (string, error)
}
